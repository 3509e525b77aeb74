package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server consumes formula tasks from the default queue.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewServer(cfg *config.RedisConfig, concurrency int) *Server {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency:  concurrency,
			Queues:       map[string]int{QueueDefault: 1},
			ErrorHandler: asynq.ErrorHandlerFunc(logTaskFailure),
			Logger:       asynqLogger{l: log.With().Str("component", "asynq").Logger()},
		},
	)

	return &Server{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

func (s *Server) HandleFunc(pattern string, handler func(context.Context, *asynq.Task) error) {
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) Start() error {
	log.Info().Str("queue", QueueDefault).Msg("Starting queue server...")
	return s.server.Start(s.mux)
}

func (s *Server) Shutdown() {
	log.Info().Msg("Shutting down queue server...")
	s.server.Shutdown()
}

// logTaskFailure logs a failed task with the evaluation it was working on.
func logTaskFailure(ctx context.Context, task *asynq.Task, err error) {
	e := log.Error().Err(err).Str("task_type", task.Type())
	if rw := task.ResultWriter(); rw != nil {
		e = e.Str("task_id", rw.TaskID())
	}

	if task.Type() == TypeFormulaEvaluation {
		if payload, decodeErr := DecodeFormulaEvaluation(task); decodeErr == nil {
			e = e.Str("evaluation_id", payload.EvaluationID.String()).
				Str("formula", payload.Formula)
		}
	}

	e.Msg("Task failed")
}

// asynqLogger routes asynq's own logging through zerolog.
type asynqLogger struct {
	l zerolog.Logger
}

func (a asynqLogger) Debug(args ...interface{}) { a.l.Debug().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...interface{})  { a.l.Info().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...interface{})  { a.l.Warn().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...interface{}) { a.l.Error().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...interface{}) { a.l.Fatal().Msg(fmt.Sprint(args...)) }
