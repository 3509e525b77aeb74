package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/linkflow-ai/mathnodes/internal/domain/models"
	"gorm.io/gorm"
)

type FormulaRepository struct {
	*BaseRepository[models.Formula]
}

func NewFormulaRepository(db *gorm.DB) *FormulaRepository {
	return &FormulaRepository{
		BaseRepository: NewBaseRepository[models.Formula](db),
	}
}

func (r *FormulaRepository) FindByName(ctx context.Context, name string) (*models.Formula, error) {
	var f models.Formula
	err := r.DB().WithContext(ctx).Where("name = ?", name).First(&f).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *FormulaRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB().WithContext(ctx).Model(&models.Formula{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// RecordEvaluation bumps the usage counters of a saved formula.
func (r *FormulaRepository) RecordEvaluation(ctx context.Context, id uuid.UUID) error {
	return r.DB().WithContext(ctx).
		Model(&models.Formula{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"evaluation_count":  gorm.Expr("evaluation_count + 1"),
			"last_evaluated_at": time.Now(),
		}).Error
}
