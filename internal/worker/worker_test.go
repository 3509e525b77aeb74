package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/linkflow-ai/mathnodes/internal/domain/services/servicetest"
	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
	"github.com/linkflow-ai/mathnodes/internal/pkg/queue"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
	"golang.org/x/time/rate"
)

func newTestWorker() (*Worker, *servicetest.Cache) {
	store := servicetest.NewCache()
	return newWorker(store, rate.NewLimiter(rate.Inf, 1)), store
}

func enqueue(t *testing.T, store *servicetest.Cache, src string, vars map[string]float64) (*asynq.Task, uuid.UUID) {
	t.Helper()
	eval := cache.NewEvaluation(src, vars)
	if err := store.SaveEvaluation(context.Background(), eval); err != nil {
		t.Fatalf("SaveEvaluation failed: %v", err)
	}
	task, err := queue.NewFormulaEvaluationTask(queue.FormulaEvaluationPayload{
		EvaluationID: eval.ID,
		Formula:      src,
		Variables:    vars,
	})
	if err != nil {
		t.Fatalf("NewFormulaEvaluationTask failed: %v", err)
	}
	return task, eval.ID
}

func TestHandleFormulaEvaluation(t *testing.T) {
	w, store := newTestWorker()
	ctx := context.Background()

	task, id := enqueue(t, store, "-a ** 2", map[string]float64{"a": 3})
	if err := w.handleFormulaEvaluation(ctx, task); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	eval, _ := store.GetEvaluation(ctx, id)
	if eval.Status != cache.StatusCompleted || eval.Result == nil || *eval.Result != 9 {
		t.Errorf("evaluation = %+v", eval)
	}
	if eval.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestHandleFormulaEvaluationFormulaError(t *testing.T) {
	w, store := newTestWorker()
	ctx := context.Background()

	task, id := enqueue(t, store, "a / b", map[string]float64{"a": 1, "b": 0})
	err := w.handleFormulaEvaluation(ctx, task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("error = %v, want SkipRetry", err)
	}

	eval, _ := store.GetEvaluation(ctx, id)
	if eval.Status != cache.StatusFailed || eval.ErrorKind != "ZeroDivisionError" {
		t.Errorf("evaluation = %+v", eval)
	}
}

func TestHandleFormulaEvaluationCreatesMissingRecord(t *testing.T) {
	w, store := newTestWorker()
	ctx := context.Background()

	id := uuid.New()
	task, _ := queue.NewFormulaEvaluationTask(queue.FormulaEvaluationPayload{EvaluationID: id, Formula: "pi() * 2"})
	if err := w.handleFormulaEvaluation(ctx, task); err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	eval, err := store.GetEvaluation(ctx, id)
	if err != nil {
		t.Fatalf("record not created: %v", err)
	}
	if eval.Status != cache.StatusCompleted || eval.Formula != "pi() * 2" {
		t.Errorf("evaluation = %+v", eval)
	}
}

type recordingPublisher struct {
	events []cache.Evaluation
	err    error
}

func (p *recordingPublisher) EvaluationFinished(ctx context.Context, eval *cache.Evaluation) error {
	p.events = append(p.events, *eval)
	return p.err
}

func TestHandleFormulaEvaluationPublishesEvents(t *testing.T) {
	tests := []struct {
		name       string
		formula    string
		publishErr error
		wantStatus cache.EvaluationStatus
	}{
		{name: "completed", formula: "2 ** 10", wantStatus: cache.StatusCompleted},
		{name: "failed", formula: "0 ** -1", wantStatus: cache.StatusFailed},
		{name: "publish error ignored", formula: "1 + 1", publishErr: errors.New("redis down"), wantStatus: cache.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, store := newTestWorker()
			pub := &recordingPublisher{err: tt.publishErr}
			w.SetEvents(pub)

			task, id := enqueue(t, store, tt.formula, nil)
			err := w.handleFormulaEvaluation(context.Background(), task)
			if tt.wantStatus == cache.StatusCompleted && err != nil {
				t.Fatalf("handler failed: %v", err)
			}

			if len(pub.events) != 1 {
				t.Fatalf("published %d events, want 1", len(pub.events))
			}
			if pub.events[0].ID != id || pub.events[0].Status != tt.wantStatus {
				t.Errorf("event = %+v", pub.events[0])
			}
		})
	}
}

func TestHandleFormulaEvaluationSkipsFinished(t *testing.T) {
	w, store := newTestWorker()
	ctx := context.Background()

	task, id := enqueue(t, store, "1 + 1", nil)
	eval, _ := store.GetEvaluation(ctx, id)
	eval.Complete(42)
	_ = store.SaveEvaluation(ctx, eval)

	if err := w.handleFormulaEvaluation(ctx, task); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	eval, _ = store.GetEvaluation(ctx, id)
	if *eval.Result != 42 {
		t.Errorf("finished evaluation was re-run: %+v", eval)
	}
}

func TestHandleFormulaEvaluationBadPayload(t *testing.T) {
	w, _ := newTestWorker()

	task := asynq.NewTask(queue.TypeFormulaEvaluation, []byte("{"))
	if err := w.handleFormulaEvaluation(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("error = %v, want SkipRetry", err)
	}
}

func TestNewLimiter(t *testing.T) {
	if newLimiter(config.WorkerConfig{}).Limit() != rate.Inf {
		t.Error("zero rate should disable limiting")
	}
	l := newLimiter(config.WorkerConfig{RateLimit: 5, Burst: 0})
	if l.Limit() != 5 || l.Burst() != 1 {
		t.Errorf("limiter = %v/%d", l.Limit(), l.Burst())
	}
}
