package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
	"github.com/redis/go-redis/v9"
)

// Channel is the redis pub/sub channel evaluation events are published on.
const Channel = "formula:evaluations"

type EventType string

const (
	EventEvaluationCompleted EventType = "evaluation.completed"
	EventEvaluationFailed    EventType = "evaluation.failed"
)

type Event struct {
	Type         EventType `json:"type"`
	EvaluationID uuid.UUID `json:"evaluation_id"`
	Formula      string    `json:"formula"`
	Result       *float64  `json:"result,omitempty"`
	Error        string    `json:"error,omitempty"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Redis is the part of the redis client the publisher uses.
type Redis interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type Publisher struct {
	redis Redis
}

func NewPublisher(redis Redis) *Publisher {
	return &Publisher{redis: redis}
}

func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	event.Timestamp = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.redis.Publish(ctx, Channel, data).Err()
}

// EvaluationFinished publishes the outcome of a finished evaluation.
func (p *Publisher) EvaluationFinished(ctx context.Context, eval *cache.Evaluation) error {
	event := &Event{
		Type:         EventEvaluationCompleted,
		EvaluationID: eval.ID,
		Formula:      eval.Formula,
		Result:       eval.Result,
	}
	if eval.Status == cache.StatusFailed {
		event.Type = EventEvaluationFailed
		event.Error = eval.Error
		event.ErrorKind = eval.ErrorKind
	}
	return p.Publish(ctx, event)
}
