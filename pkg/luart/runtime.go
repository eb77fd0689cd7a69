package luart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/loader"
)

// Ext is the source file extension of Lua modules.
const Ext = ".lua"

// ConstructorName is the class function called to build an instance.
const ConstructorName = "new"

// Runtime is a loader.Runtime for Lua module sources.
type Runtime struct {
	timeout time.Duration
	logger  *slog.Logger
}

var _ loader.Runtime = (*Runtime)(nil)

// New creates a Lua runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(r)
	}
	return r
}

// Ext implements loader.Runtime.
func (r *Runtime) Ext() string { return Ext }

// Load executes the module source in a fresh state and instantiates unit.TypeName.
func (r *Runtime) Load(ctx context.Context, unit loader.Unit) (core.Handler, error) {
	L := newState(r.logger.With("module", unit.Module, "version", unit.Version))

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	L.SetContext(ctx)

	if err := protect(func() error { return L.DoFile(unit.Path) }); err != nil {
		L.Close()
		return nil, err
	}

	class, ok := L.GetGlobal(unit.TypeName).(*lua.LTable)
	if !ok {
		L.Close()
		return nil, nil
	}

	self, err := instantiate(L, class)
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%s.%s: %w", unit.TypeName, ConstructorName, err)
	}

	L.RemoveContext()
	return &Handler{
		L:        L,
		self:     self,
		typeName: unit.TypeName,
		runtime:  r,
	}, nil
}

func (r *Runtime) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// instantiate calls class.new() when present, otherwise uses the class itself.
func instantiate(L *lua.LState, class *lua.LTable) (*lua.LTable, error) {
	field, err := getField(L, class, ConstructorName)
	if err != nil {
		return nil, err
	}
	ctor, ok := field.(*lua.LFunction)
	if !ok {
		return class, nil
	}

	var ret lua.LValue
	err = protect(func() error {
		if err := L.CallByParam(lua.P{Fn: ctor, NRet: 1, Protect: true}); err != nil {
			return err
		}
		ret = L.Get(-1)
		L.Pop(1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	self, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("constructor returned %s, want table", ret.Type())
	}
	return self, nil
}

// getField reads t[name] inside a protected call, so an __index
// metamethod that raises or exceeds the deadline returns an error.
func getField(L *lua.LState, t *lua.LTable, name string) (lua.LValue, error) {
	read := L.NewFunction(func(L *lua.LState) int {
		L.Push(L.GetField(L.CheckTable(1), L.CheckString(2)))
		return 1
	})

	var v lua.LValue
	err := protect(func() error {
		if err := L.CallByParam(lua.P{Fn: read, NRet: 1, Protect: true}, t, lua.LString(name)); err != nil {
			return err
		}
		v = L.Get(-1)
		L.Pop(1)
		return nil
	})
	return v, err
}

// newState creates a Lua state with only safe libraries opened.
func newState(logger *slog.Logger) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	// io, os, debug and package are intentionally not opened.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		logger.Info(strings.Join(parts, "\t"), "source", "lua")
		return 0
	}))

	return L
}

// protect converts Go panics raised inside gopher-lua into errors.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
