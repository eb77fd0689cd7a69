// Package apigen dispatches API calls to versioned modules and serializes
// their results.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages and wires them together.
//
// Basic usage:
//
//	cfg := apigen.DefaultConfig()
//	cfg.APIRoot = "/srv/api" // holds v1/users.lua, v1/orders.native, ...
//
//	app, err := apigen.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Compiled-in modules are registered per version and deployed with
//	// a v1/orders.native marker file.
//	app.RegisterStruct(1, "orders", func() any { return &Orders{} })
//
//	resp, err := app.Dispatch(ctx, "json", 1, "users", "list")
//
//	// Or serve over HTTP: GET /json/v1/users/list
//	http.ListenAndServe(cfg.Listen, app.Handler())
package apigen

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jdziat/apigen/pkg/config"
	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/dispatch"
	"github.com/jdziat/apigen/pkg/doc"
	"github.com/jdziat/apigen/pkg/format"
	"github.com/jdziat/apigen/pkg/httpapi"
	"github.com/jdziat/apigen/pkg/loader"
	"github.com/jdziat/apigen/pkg/luart"
	"github.com/jdziat/apigen/pkg/registry"
	"github.com/jdziat/apigen/pkg/stats"
)

// Type aliases for the public surface.
type (
	// Request names a format, API version, module and method.
	Request = core.Request

	// Response is a serialized result with its content type.
	Response = core.Response

	// Handler exposes a module's operations by name.
	Handler = core.Handler

	// Method is one module operation.
	Method = core.Method

	// Methods is a map-backed Handler.
	Methods = core.Methods

	// Boundary receives a successful response.
	Boundary = core.Boundary

	// Fault ties a dispatch error to its request.
	Fault = core.Fault

	// Config is the daemon configuration.
	Config = config.Config

	// Dispatcher routes requests and encodes results.
	Dispatcher = dispatch.Dispatcher

	// Registry holds compiled-in modules.
	Registry = registry.Registry

	// Factory creates a module instance per call.
	Factory = registry.Factory

	// Runtime loads module source units of one file extension.
	Runtime = loader.Runtime

	// Encoder serializes results for one format.
	Encoder = format.Encoder

	// Documenter renders documentation for "doc" requests.
	Documenter = doc.Documenter

	// Snapshot is a copy of the dispatch counters.
	Snapshot = stats.Snapshot
)

const (
	// FormatDoc selects documentation instead of a module call.
	FormatDoc = core.FormatDoc

	// DefaultMethod is invoked when a request names no method.
	DefaultMethod = core.DefaultMethod
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// App is a fully wired dispatcher.
type App struct {
	config     *Config
	logger     *slog.Logger
	registry   *registry.Registry
	loader     *loader.Loader
	dispatcher *dispatch.Dispatcher
	stats      *stats.Collector
}

// New wires the loader, runtimes, dispatcher and stats collector for cfg.
// A nil cfg uses DefaultConfig. Lua (.lua) and registered native
// (.native) modules are served, in that order, ahead of any runtime added
// with WithRuntime.
func New(cfg *Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt.apply(o)
	}
	if err := cfg.Validate(o.logger); err != nil {
		return nil, err
	}

	reg := o.registry
	if reg == nil {
		reg = registry.New()
	}

	luaOpts := []luart.Option{luart.WithLogger(o.logger)}
	if o.luaTimeout > 0 {
		luaOpts = append(luaOpts, luart.WithTimeout(o.luaTimeout))
	}

	loaderOpts := []loader.Option{
		loader.WithLogger(o.logger),
		loader.WithRuntime(luart.New(luaOpts...)),
		loader.WithRuntime(reg.Runtime()),
	}
	for _, rt := range o.runtimes {
		loaderOpts = append(loaderOpts, loader.WithRuntime(rt))
	}
	l := loader.New(cfg.APIRoot, loaderOpts...)

	d := dispatch.New(l,
		dispatch.WithLogger(o.logger),
		dispatch.WithDocumenter(o.docs),
		dispatch.WithFormats(o.formats),
	)

	collector := stats.NewCollector(
		stats.WithLogger(o.logger),
		stats.WithSchedule(cfg.Stats.Schedule),
	)
	collector.Attach(d)

	return &App{
		config:     cfg,
		logger:     o.logger,
		registry:   reg,
		loader:     l,
		dispatcher: d,
		stats:      collector,
	}, nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() *Config { return a.config }

// Registry returns the native module registry.
func (a *App) Registry() *Registry { return a.registry }

// Dispatcher returns the underlying dispatcher.
func (a *App) Dispatcher() *Dispatcher { return a.dispatcher }

// Stats returns the dispatch counters collector.
func (a *App) Stats() *stats.Collector { return a.stats }

// Register adds a compiled-in module for version.
func (a *App) Register(version int, module string, f Factory) error {
	return a.registry.Register(version, module, f)
}

// RegisterStruct adds a compiled-in module whose operations are the
// exported methods of the values newFn returns. A method named Index is
// the default entry.
func (a *App) RegisterStruct(version int, module string, newFn func() any) error {
	return a.registry.Register(version, module, registry.Struct(newFn))
}

// Dispatch serves one call. Module and method may be empty.
func (a *App) Dispatch(ctx context.Context, format string, version int, module, method string) (*Response, error) {
	return a.dispatcher.Dispatch(ctx, Request{
		Format:  format,
		Version: version,
		Module:  module,
		Method:  method,
	})
}

// Serve dispatches req and writes the response to b on success.
func (a *App) Serve(ctx context.Context, b Boundary, req Request) error {
	return a.dispatcher.Serve(ctx, b, req)
}

// Handler returns an HTTP handler for the app, with /stats enabled.
func (a *App) Handler(opts ...httpapi.Option) http.Handler {
	base := []httpapi.Option{
		httpapi.WithLogger(a.logger),
		httpapi.WithStats(a.stats),
	}
	return httpapi.Handler(a.dispatcher, append(base, opts...)...)
}

// StartStats logs dispatch summaries on the configured schedule.
// Blocks until ctx is cancelled.
func (a *App) StartStats(ctx context.Context) {
	a.stats.Start(ctx)
}
