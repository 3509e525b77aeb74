package middleware

import (
	"context"
	"time"

	"github.com/linkflow-ai/mathnodes/internal/worker/core"
)

// NextFunc runs the rest of the chain.
type NextFunc func(ctx context.Context) (map[string]interface{}, error)

// Middleware wraps a single node execution.
type Middleware interface {
	Execute(ctx context.Context, nodeType string, execCtx *core.ExecutionContext, next NextFunc) (map[string]interface{}, error)
}

// Chain manages a chain of middleware around core.Execute.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{
		middlewares: middlewares,
	}
}

// Use adds middleware to the chain
func (c *Chain) Use(m Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Execute runs nodeType through the chain. The first middleware is outermost.
func (c *Chain) Execute(ctx context.Context, nodeType string, execCtx *core.ExecutionContext) (map[string]interface{}, error) {
	final := func(ctx context.Context) (map[string]interface{}, error) {
		return core.Execute(ctx, nodeType, execCtx)
	}

	for i := len(c.middlewares) - 1; i >= 0; i-- {
		m := c.middlewares[i]
		next := final
		final = func(ctx context.Context) (map[string]interface{}, error) {
			return m.Execute(ctx, nodeType, execCtx, next)
		}
	}

	return final(ctx)
}

// Default is the chain used by the worker, the API and the CLI.
func Default(timeout time.Duration) *Chain {
	return NewChain(
		NewRecoveryMiddleware(),
		NewLoggingMiddleware(),
		NewMetricsMiddleware(),
		NewTimeoutMiddleware(timeout),
	)
}
