package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/linkflow-ai/mathnodes/internal/pkg/metrics"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
)

// MetricsMiddleware records node execution counts and durations
type MetricsMiddleware struct{}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Execute implements Middleware
func (m *MetricsMiddleware) Execute(ctx context.Context, nodeType string, execCtx *core.ExecutionContext, next NextFunc) (map[string]interface{}, error) {
	start := time.Now()
	output, err := next(ctx)
	if errors.Is(err, core.ErrUnknownNodeType) {
		return nil, err
	}

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordNodeExecution(nodeType, status, time.Since(start).Seconds())

	return output, err
}
