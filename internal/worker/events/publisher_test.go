package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	channel  string
	messages [][]byte
	err      error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.messages = append(f.messages, message.([]byte))
	return redis.NewIntResult(1, f.err)
}

func TestEvaluationFinished(t *testing.T) {
	completed := cache.NewEvaluation("-a ** 2", map[string]float64{"a": 3})
	completed.Complete(9)

	failed := cache.NewEvaluation("1 / 0", nil)
	_, err := formula.Evaluate(failed.Formula, nil)
	failed.Fail(err)

	tests := []struct {
		name      string
		eval      *cache.Evaluation
		wantType  EventType
		wantKind  string
		hasResult bool
	}{
		{name: "completed", eval: completed, wantType: EventEvaluationCompleted, hasResult: true},
		{name: "failed", eval: failed, wantType: EventEvaluationFailed, wantKind: "ZeroDivisionError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRedis{}
			if err := NewPublisher(r).EvaluationFinished(context.Background(), tt.eval); err != nil {
				t.Fatalf("EvaluationFinished failed: %v", err)
			}
			if r.channel != Channel || len(r.messages) != 1 {
				t.Fatalf("published %d messages on %q", len(r.messages), r.channel)
			}

			var event Event
			if err := json.Unmarshal(r.messages[0], &event); err != nil {
				t.Fatalf("invalid event: %v", err)
			}
			if event.Type != tt.wantType || event.EvaluationID != tt.eval.ID || event.ErrorKind != tt.wantKind {
				t.Errorf("event = %+v", event)
			}
			if (event.Result != nil) != tt.hasResult {
				t.Errorf("result = %v", event.Result)
			}
			if event.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}
		})
	}
}

func TestPublishError(t *testing.T) {
	errDown := errors.New("connection refused")
	r := &fakeRedis{err: errDown}

	err := NewPublisher(r).Publish(context.Background(), &Event{Type: EventEvaluationCompleted})
	if !errors.Is(err, errDown) {
		t.Errorf("err = %v, want %v", err, errDown)
	}
}
