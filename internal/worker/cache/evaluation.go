package cache

import (
	"time"

	"github.com/google/uuid"
	"github.com/linkflow-ai/mathnodes/internal/formula"
)

type EvaluationStatus string

const (
	StatusPending   EvaluationStatus = "pending"
	StatusCompleted EvaluationStatus = "completed"
	StatusFailed    EvaluationStatus = "failed"
)

// Evaluation is the record of an asynchronous evaluation
type Evaluation struct {
	ID          uuid.UUID          `json:"id"`
	Formula     string             `json:"formula"`
	Variables   map[string]float64 `json:"variables,omitempty"`
	Status      EvaluationStatus   `json:"status"`
	Result      *float64           `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	ErrorKind   string             `json:"error_kind,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

func NewEvaluation(src string, vars map[string]float64) *Evaluation {
	return &Evaluation{
		ID:        uuid.New(),
		Formula:   src,
		Variables: vars,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func (e *Evaluation) Complete(result float64) {
	now := time.Now().UTC()
	e.Status = StatusCompleted
	e.Result = &result
	e.Error = ""
	e.ErrorKind = ""
	e.CompletedAt = &now
}

func (e *Evaluation) Fail(err error) {
	now := time.Now().UTC()
	e.Status = StatusFailed
	e.Result = nil
	e.Error = err.Error()
	if kind := formula.KindOf(err); kind != 0 {
		e.ErrorKind = kind.String()
	} else {
		e.ErrorKind = ""
	}
	e.CompletedAt = &now
}

func (e *Evaluation) Done() bool {
	return e.Status == StatusCompleted || e.Status == StatusFailed
}
