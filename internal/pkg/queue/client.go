package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
)

const (
	TypeFormulaEvaluation = "formula:evaluate"
)

// QueueDefault is the only queue; formula tasks share one priority.
const QueueDefault = "default"

type Client struct {
	client *asynq.Client
}

func NewClient(cfg *config.RedisConfig) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Client{client: client}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Formula Evaluation
type FormulaEvaluationPayload struct {
	EvaluationID uuid.UUID          `json:"evaluation_id"`
	Formula      string             `json:"formula"`
	Variables    map[string]float64 `json:"variables,omitempty"`
}

// NewFormulaEvaluationTask builds the task for an async evaluation. Formula
// errors are deterministic so the task is never retried; the evaluation id
// doubles as task id so a record cannot be enqueued twice.
func NewFormulaEvaluationTask(payload FormulaEvaluationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return asynq.NewTask(TypeFormulaEvaluation, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Second),
		asynq.Retention(24*time.Hour),
		asynq.TaskID(payload.EvaluationID.String()),
	), nil
}

func (c *Client) EnqueueFormulaEvaluation(ctx context.Context, payload FormulaEvaluationPayload) (*asynq.TaskInfo, error) {
	task, err := NewFormulaEvaluationTask(payload)
	if err != nil {
		return nil, err
	}

	return c.client.EnqueueContext(ctx, task)
}

// DecodeFormulaEvaluation parses a formula:evaluate payload
func DecodeFormulaEvaluation(task *asynq.Task) (FormulaEvaluationPayload, error) {
	var payload FormulaEvaluationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.EvaluationID == uuid.Nil {
		return payload, fmt.Errorf("payload has no evaluation id")
	}
	return payload, nil
}
