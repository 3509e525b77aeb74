package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkflow-ai/mathnodes/internal/worker/core"
)

var ErrNodeTimeout = errors.New("node execution timed out")

// TimeoutMiddleware gives each node run a deadline. Nodes observe it through
// their context; the run is not abandoned.
type TimeoutMiddleware struct {
	timeout time.Duration
}

// NewTimeoutMiddleware creates a timeout middleware; zero means 10s.
func NewTimeoutMiddleware(timeout time.Duration) *TimeoutMiddleware {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TimeoutMiddleware{timeout: timeout}
}

// Execute implements Middleware
func (m *TimeoutMiddleware) Execute(ctx context.Context, nodeType string, execCtx *core.ExecutionContext, next NextFunc) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	output, err := next(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %v: %s", ErrNodeTimeout, m.timeout, nodeType)
	}
	return output, err
}
