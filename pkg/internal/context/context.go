// Package context provides context helpers for the dispatch packages.
package context

import (
	"context"

	"github.com/jdziat/apigen/pkg/core"
)

// RequestKey is the key for storing the dispatched request in context.Context.
type RequestKey struct{}

// GetRequest retrieves the dispatched request from a context.Context.
func GetRequest(ctx context.Context) (core.Request, bool) {
	req, ok := ctx.Value(RequestKey{}).(core.Request)
	return req, ok
}

// WithRequest adds the dispatched request to a context.Context.
func WithRequest(ctx context.Context, req core.Request) context.Context {
	return context.WithValue(ctx, RequestKey{}, req)
}

// RequestIDKey is the key for storing the request id in context.Context.
type RequestIDKey struct{}

// GetRequestID retrieves the request id from a context.Context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds a request id to a context.Context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, id)
}
