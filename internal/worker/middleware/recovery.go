package middleware

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/linkflow-ai/mathnodes/internal/worker/core"
	"github.com/rs/zerolog/log"
)

var ErrNodePanic = errors.New("node panicked")

// RecoveryMiddleware turns a panicking node into an error
type RecoveryMiddleware struct{}

func NewRecoveryMiddleware() *RecoveryMiddleware {
	return &RecoveryMiddleware{}
}

// Execute implements Middleware
func (m *RecoveryMiddleware) Execute(ctx context.Context, nodeType string, execCtx *core.ExecutionContext, next NextFunc) (output map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("execution_id", execCtx.ExecutionID.String()).
				Str("node_id", execCtx.NodeID).
				Str("node_type", nodeType).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Node execution panicked")

			err = fmt.Errorf("%w: %v", ErrNodePanic, r)
			output = nil
		}
	}()

	return next(ctx)
}
