package apigen

import (
	"log/slog"
	"time"

	"github.com/jdziat/apigen/pkg/doc"
	"github.com/jdziat/apigen/pkg/format"
	"github.com/jdziat/apigen/pkg/loader"
	"github.com/jdziat/apigen/pkg/registry"
)

// Option configures an App.
type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }

type options struct {
	logger     *slog.Logger
	registry   *registry.Registry
	runtimes   []loader.Runtime
	docs       doc.Documenter
	formats    *format.Registry
	luaTimeout time.Duration
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	})
}

// WithRegistry uses an existing native module registry.
func WithRegistry(r *registry.Registry) Option {
	return optionFunc(func(o *options) {
		o.registry = r
	})
}

// WithRuntime adds a source runtime after the built-in ones.
func WithRuntime(rt loader.Runtime) Option {
	return optionFunc(func(o *options) {
		if rt != nil {
			o.runtimes = append(o.runtimes, rt)
		}
	})
}

// WithDocumenter sets the renderer for "doc" requests.
func WithDocumenter(d doc.Documenter) Option {
	return optionFunc(func(o *options) {
		o.docs = d
	})
}

// WithFormats replaces the encoder registry.
func WithFormats(r *format.Registry) Option {
	return optionFunc(func(o *options) {
		o.formats = r
	})
}

// WithLuaTimeout bounds loading a Lua module and each of its operations.
func WithLuaTimeout(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.luaTimeout = d
	})
}
