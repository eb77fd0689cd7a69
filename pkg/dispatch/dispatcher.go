package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/doc"
	"github.com/jdziat/apigen/pkg/format"
	intctx "github.com/jdziat/apigen/pkg/internal/context"
)

// Caller invokes a module operation and returns its raw result.
// *loader.Loader satisfies it.
type Caller interface {
	Call(ctx context.Context, version int, module, method string) (any, error)
}

// Dispatcher routes requests to documentation or to a Caller and encodes results.
// It is safe for concurrent use.
type Dispatcher struct {
	caller  Caller
	formats *format.Registry
	docs    doc.Documenter
	logger  *slog.Logger

	mu         sync.RWMutex
	onStart    []func(context.Context, core.Request)
	onComplete []func(context.Context, core.Request, time.Duration)
	onFail     []func(context.Context, core.Request, error)
}

// New creates a Dispatcher calling modules through caller.
func New(caller Caller, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		caller:  caller,
		formats: format.Default(),
		docs:    doc.Nop{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(d)
	}
	return d
}

// Formats returns the encoder registry.
func (d *Dispatcher) Formats() *format.Registry {
	return d.formats
}

// Dispatch serves req and returns the serialized response.
func (d *Dispatcher) Dispatch(ctx context.Context, req core.Request) (*core.Response, error) {
	start := time.Now()
	ctx = intctx.WithRequest(ctx, req)
	d.callStartHooks(ctx, req)

	resp, err := d.dispatch(ctx, req)
	if err != nil {
		err = core.NewFault(req, err)
		d.logger.Debug("dispatch failed",
			"request", req.String(),
			"request_id", intctx.GetRequestID(ctx),
			"error", err,
		)
		d.callFailHooks(ctx, req, err)
		return nil, err
	}

	d.callCompleteHooks(ctx, req, time.Since(start))
	return resp, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req core.Request) (*core.Response, error) {
	if req.Format == core.FormatDoc {
		resp, err := d.docs.Render(ctx, req.Version, req.Module, req.Method)
		if err != nil {
			return nil, fmt.Errorf("documentation: %w", err)
		}
		return resp, nil
	}

	// Reject unknown formats before any module is loaded.
	if _, ok := d.formats.Lookup(req.Format); !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidFormat, req.Format)
	}

	if d.caller == nil {
		return nil, core.ErrMissingConfig
	}

	result, err := d.caller.Call(ctx, req.Version, req.Module, req.Method)
	if err != nil {
		return nil, err
	}

	return d.formats.Encode(req.Format, result)
}

// Serve dispatches req and hands the response to b.
// Nothing is written to b when the dispatch fails.
func (d *Dispatcher) Serve(ctx context.Context, b core.Boundary, req core.Request) error {
	resp, err := d.Dispatch(ctx, req)
	if err != nil {
		return err
	}

	b.SetContentType(resp.ContentType)
	if _, err := b.Write(resp.Body); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// OnStart registers a callback run before each dispatch.
func (d *Dispatcher) OnStart(fn func(context.Context, core.Request)) {
	d.mu.Lock()
	d.onStart = append(d.onStart, fn)
	d.mu.Unlock()
}

// OnComplete registers a callback run after each successful dispatch.
func (d *Dispatcher) OnComplete(fn func(context.Context, core.Request, time.Duration)) {
	d.mu.Lock()
	d.onComplete = append(d.onComplete, fn)
	d.mu.Unlock()
}

// OnFail registers a callback run after each failed dispatch.
func (d *Dispatcher) OnFail(fn func(context.Context, core.Request, error)) {
	d.mu.Lock()
	d.onFail = append(d.onFail, fn)
	d.mu.Unlock()
}

func (d *Dispatcher) callStartHooks(ctx context.Context, req core.Request) {
	d.mu.RLock()
	hooks := make([]func(context.Context, core.Request), len(d.onStart))
	copy(hooks, d.onStart)
	d.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, req)
	}
}

func (d *Dispatcher) callCompleteHooks(ctx context.Context, req core.Request, elapsed time.Duration) {
	d.mu.RLock()
	hooks := make([]func(context.Context, core.Request, time.Duration), len(d.onComplete))
	copy(hooks, d.onComplete)
	d.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, req, elapsed)
	}
}

func (d *Dispatcher) callFailHooks(ctx context.Context, req core.Request, err error) {
	d.mu.RLock()
	hooks := make([]func(context.Context, core.Request, error), len(d.onFail))
	copy(hooks, d.onFail)
	d.mu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, req, err)
	}
}
