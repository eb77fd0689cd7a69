// Package doc defines the documentation rendering extension point.
//
// Requests with the "doc" format are handed to a Documenter instead of
// the loader. Version is mandatory; module and method are optional and
// empty when absent. Nop renders an empty body.
package doc

import (
	"context"

	"github.com/jdziat/apigen/pkg/core"
)

// ContentType is the media type of Nop output.
const ContentType = "text/plain"

// Documenter renders documentation for an API version, module and method.
type Documenter interface {
	Render(ctx context.Context, version int, module, method string) (*core.Response, error)
}

// Func adapts a function to a Documenter.
type Func func(ctx context.Context, version int, module, method string) (*core.Response, error)

// Render implements Documenter.
func (f Func) Render(ctx context.Context, version int, module, method string) (*core.Response, error) {
	return f(ctx, version, module, method)
}

// Nop renders nothing.
type Nop struct{}

// Render implements Documenter.
func (Nop) Render(context.Context, int, string, string) (*core.Response, error) {
	return &core.Response{ContentType: ContentType, Body: []byte{}}, nil
}
