// Package reqctx provides public access to the dispatch context for module operations.
package reqctx

import (
	"context"

	"github.com/google/uuid"

	"github.com/jdziat/apigen/pkg/core"
	intctx "github.com/jdziat/apigen/pkg/internal/context"
)

// RequestFromContext returns the request being dispatched.
// The boolean is false outside a dispatch.
func RequestFromContext(ctx context.Context) (core.Request, bool) {
	return intctx.GetRequest(ctx)
}

// RequestIDFromContext returns the transport-assigned request id, or an
// empty string when none was assigned.
func RequestIDFromContext(ctx context.Context) string {
	return intctx.GetRequestID(ctx)
}

// WithRequestID returns a context carrying id. An empty id is replaced by
// a new random one.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return intctx.WithRequestID(ctx, id)
}
