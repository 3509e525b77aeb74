// Package servicetest provides in-memory implementations of the formula
// service dependencies for tests.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/linkflow-ai/mathnodes/internal/domain/models"
	"github.com/linkflow-ai/mathnodes/internal/domain/repositories"
	"github.com/linkflow-ai/mathnodes/internal/pkg/queue"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
)

// Cache is a map-backed ResultCache.
type Cache struct {
	mu          sync.Mutex
	results     map[string]float64
	evaluations map[uuid.UUID]cache.Evaluation
	Sets        int
}

func NewCache() *Cache {
	return &Cache{
		results:     make(map[string]float64),
		evaluations: make(map[uuid.UUID]cache.Evaluation),
	}
}

func (c *Cache) Get(ctx context.Context, key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.results[key]
	return v, ok
}

func (c *Cache) Set(ctx context.Context, key string, result float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = result
	c.Sets++
	return nil
}

func (c *Cache) SaveEvaluation(ctx context.Context, eval *cache.Evaluation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evaluations[eval.ID] = *eval
	return nil
}

func (c *Cache) GetEvaluation(ctx context.Context, id uuid.UUID) (*cache.Evaluation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	eval, ok := c.evaluations[id]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return &eval, nil
}

// Repository is a map-backed FormulaRepository.
type Repository struct {
	mu       sync.Mutex
	formulas map[uuid.UUID]models.Formula
}

func NewRepository() *Repository {
	return &Repository{formulas: make(map[uuid.UUID]models.Formula)}
}

func (r *Repository) Create(ctx context.Context, f *models.Formula) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now()
	f.CreatedAt, f.UpdatedAt = now, now
	r.formulas[f.ID] = *f
	return nil
}

func (r *Repository) Update(ctx context.Context, f *models.Formula) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.UpdatedAt = time.Now()
	r.formulas[f.ID] = *f
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formulas[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.formulas, id)
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Formula, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.formulas[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &f, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*models.Formula, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.formulas {
		if f.Name == name {
			return &f, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *Repository) FindAll(ctx context.Context, opts *repositories.ListOptions) ([]models.Formula, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]models.Formula, 0, len(r.formulas))
	for _, f := range r.formulas {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	if opts != nil {
		if opts.Offset >= len(all) {
			return []models.Formula{}, total, nil
		}
		all = all[opts.Offset:]
		if opts.Limit > 0 && opts.Limit < len(all) {
			all = all[:opts.Limit]
		}
	}
	return all, total, nil
}

func (r *Repository) RecordEvaluation(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.formulas[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	f.EvaluationCount++
	f.LastEvaluatedAt = &now
	r.formulas[id] = f
	return nil
}

// Queue records enqueued payloads. Set Err to make enqueueing fail.
type Queue struct {
	mu       sync.Mutex
	Payloads []queue.FormulaEvaluationPayload
	Err      error
}

func (q *Queue) EnqueueFormulaEvaluation(ctx context.Context, payload queue.FormulaEvaluationPayload) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return nil, q.Err
	}
	q.Payloads = append(q.Payloads, payload)
	return &asynq.TaskInfo{ID: payload.EvaluationID.String(), Type: queue.TypeFormulaEvaluation}, nil
}

var ErrQueueDown = errors.New("queue unavailable")
