package middleware

import (
	"context"
	"time"

	"github.com/linkflow-ai/mathnodes/internal/pkg/logger"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
)

// LoggingMiddleware logs node execution details
type LoggingMiddleware struct{}

func NewLoggingMiddleware() *LoggingMiddleware {
	return &LoggingMiddleware{}
}

// Execute implements Middleware
func (m *LoggingMiddleware) Execute(ctx context.Context, nodeType string, execCtx *core.ExecutionContext, next NextFunc) (map[string]interface{}, error) {
	l := logger.WithExecutionID(execCtx.ExecutionID.String()).With().
		Str("node_id", execCtx.NodeID).
		Str("node_type", nodeType).
		Logger()

	l.Debug().Msg("Node execution started")
	start := time.Now()

	output, err := next(ctx)
	if err != nil {
		l.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Node execution failed")
		return nil, err
	}

	l.Debug().Dur("duration", time.Since(start)).Msg("Node execution completed")
	return output, nil
}
