package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
	"github.com/linkflow-ai/mathnodes/internal/pkg/logger"
	"github.com/linkflow-ai/mathnodes/internal/pkg/metrics"
	"github.com/linkflow-ai/mathnodes/internal/pkg/queue"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
	"github.com/linkflow-ai/mathnodes/internal/worker/middleware"
	"github.com/linkflow-ai/mathnodes/internal/worker/nodes/maths"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// EvaluationStore loads and saves async evaluation records
type EvaluationStore interface {
	GetEvaluation(ctx context.Context, id uuid.UUID) (*cache.Evaluation, error)
	SaveEvaluation(ctx context.Context, eval *cache.Evaluation) error
}

// EventPublisher announces finished evaluations
type EventPublisher interface {
	EvaluationFinished(ctx context.Context, eval *cache.Evaluation) error
}

type Worker struct {
	server  *queue.Server
	store   EvaluationStore
	events  EventPublisher
	limiter *rate.Limiter
	nodes   *middleware.Chain
}

func New(cfg *config.Config, store EvaluationStore) *Worker {
	server := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency)

	w := newWorker(store, newLimiter(cfg.Worker))
	w.server = server
	w.nodes = middleware.Default(cfg.Worker.NodeTimeout)

	// Register handlers
	server.HandleFunc(queue.TypeFormulaEvaluation, w.handleFormulaEvaluation)

	return w
}

func newWorker(store EvaluationStore, limiter *rate.Limiter) *Worker {
	return &Worker{store: store, limiter: limiter, nodes: middleware.Default(0)}
}

// SetEvents sets the event publisher (optional dependency)
func (w *Worker) SetEvents(p EventPublisher) {
	w.events = p
}

func newLimiter(cfg config.WorkerConfig) *rate.Limiter {
	if cfg.RateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
}

func (w *Worker) Start() error {
	log.Info().
		Int("nodes", core.Count()).
		Msg("Starting worker...")
	return w.server.Start()
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleFormulaEvaluation(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.DecodeFormulaEvaluation(task)
	if err != nil {
		metrics.RecordTaskProcessed(queue.TypeFormulaEvaluation, "invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	l := logger.WithEvaluationID(payload.EvaluationID.String())

	waitStart := time.Now()
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	metrics.RecordRateLimitWait(time.Since(waitStart))

	eval, err := w.store.GetEvaluation(ctx, payload.EvaluationID)
	if errors.Is(err, cache.ErrNotFound) {
		eval = cache.NewEvaluation(payload.Formula, payload.Variables)
		eval.ID = payload.EvaluationID
	} else if err != nil {
		return fmt.Errorf("failed to load evaluation: %w", err)
	}

	if eval.Done() {
		l.Debug().Str("status", string(eval.Status)).Msg("Evaluation already finished, skipping")
		return nil
	}

	l.Info().Str("formula", payload.Formula).Msg("Processing formula evaluation")

	input := make(map[string]interface{}, len(payload.Variables))
	for k, v := range payload.Variables {
		input[k] = v
	}
	execCtx := core.NewExecutionContext(payload.EvaluationID.String(),
		map[string]interface{}{"formula": payload.Formula}, input)

	start := time.Now()
	out, execErr := w.nodes.Execute(ctx, maths.FormulaNodeType, execCtx)
	duration := time.Since(start).Seconds()

	status := "success"
	if execErr != nil {
		status = "failed"
		if kind := formula.KindOf(execErr); kind != 0 {
			status = kind.String()
		}
	}
	metrics.RecordFormulaEvaluation("worker", status, duration)

	if execErr != nil {
		eval.Fail(execErr)
	} else {
		result, _ := out["result"].(float64)
		eval.Complete(result)
	}

	if err := w.store.SaveEvaluation(ctx, eval); err != nil {
		metrics.RecordTaskProcessed(queue.TypeFormulaEvaluation, "error")
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	if w.events != nil {
		if err := w.events.EvaluationFinished(ctx, eval); err != nil {
			l.Warn().Err(err).Msg("Failed to publish evaluation event")
		}
	}

	if execErr != nil {
		metrics.RecordTaskProcessed(queue.TypeFormulaEvaluation, "failed")
		l.Warn().Err(execErr).Str("error_kind", eval.ErrorKind).Msg("Formula evaluation failed")
		if formula.KindOf(execErr) != 0 {
			return fmt.Errorf("%v: %w", execErr, asynq.SkipRetry)
		}
		return execErr
	}

	metrics.RecordTaskProcessed(queue.TypeFormulaEvaluation, "success")
	l.Info().Float64("result", *eval.Result).Msg("Formula evaluation completed")
	return nil
}
