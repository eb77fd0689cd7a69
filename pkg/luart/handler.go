package luart

import (
	"context"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/jdziat/apigen/pkg/core"
)

// ErrHandlerClosed is returned when an operation runs after Close.
var ErrHandlerClosed = errors.New("luart: handler is closed")

// Handler is a Lua module instance. It owns its Lua state and is not
// safe for concurrent use; the loader creates one per call.
type Handler struct {
	L        *lua.LState
	self     *lua.LTable
	typeName string
	runtime  *Runtime
	closed   bool
}

var _ core.Handler = (*Handler)(nil)

// TypeName returns the Lua global the instance was built from.
func (h *Handler) TypeName() string {
	return h.typeName
}

// Lookup implements core.Handler. Only function fields are operations.
// An __index metamethod that raises makes the operation fail with that error.
func (h *Handler) Lookup(name string) (core.Method, bool) {
	if h.closed {
		return nil, false
	}

	field, err := h.field(name)
	if err != nil {
		return func(context.Context) (any, error) {
			return nil, fmt.Errorf("lookup %s: %w", name, err)
		}, true
	}
	fn, ok := field.(*lua.LFunction)
	if !ok {
		return nil, false
	}
	return func(ctx context.Context) (any, error) {
		return h.call(ctx, fn)
	}, true
}

// field reads self[name] under the runtime deadline, honouring metamethods.
func (h *Handler) field(name string) (lua.LValue, error) {
	ctx, cancel := h.runtime.withTimeout(context.Background())
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	return getField(h.L, h.self, name)
}

func (h *Handler) call(ctx context.Context, fn *lua.LFunction) (any, error) {
	if h.closed {
		return nil, ErrHandlerClosed
	}

	ctx, cancel := h.runtime.withTimeout(ctx)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	var ret lua.LValue
	err := protect(func() error {
		if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, h.self); err != nil {
			return err
		}
		ret = h.L.Get(-1)
		h.L.Pop(1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ToGo(ret)
}

// Close releases the Lua state.
func (h *Handler) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.L.Close()
	return nil
}
