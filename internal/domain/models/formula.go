package models

import (
	"time"

	"github.com/google/uuid"
)

// Formula is a named, saved expression with default variable values.
type Formula struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string     `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description     *string    `gorm:"type:text" json:"description,omitempty"`
	Expression      string     `gorm:"type:text;not null" json:"expression"`
	Defaults        JSON       `gorm:"type:jsonb;default:'{}'" json:"defaults"`
	EvaluationCount int        `gorm:"default:0" json:"evaluation_count"`
	LastEvaluatedAt *time.Time `json:"last_evaluated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Formula) TableName() string {
	return "formulas"
}

// DefaultValues returns a copy of the stored defaults.
func (f *Formula) DefaultValues() map[string]interface{} {
	out := make(map[string]interface{}, len(f.Defaults))
	for k, v := range f.Defaults {
		out[k] = v
	}
	return out
}
