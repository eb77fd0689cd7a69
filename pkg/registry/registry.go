package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jdziat/apigen/pkg/core"
	"github.com/jdziat/apigen/pkg/internal/handler"
	"github.com/jdziat/apigen/pkg/loader"
	"github.com/jdziat/apigen/pkg/security"
)

// NativeExt is the marker file extension that deploys a registered module.
const NativeExt = ".native"

// Factory creates a fresh handler instance. It is called once per API call.
type Factory func() (core.Handler, error)

type key struct {
	version  int
	typeName string
}

// Registry maps (version, handler type name) pairs to factories.
type Registry struct {
	factories map[key]Factory
	mu        sync.RWMutex
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		factories: make(map[key]Factory),
	}
}

// Register adds a factory for module under version.
func (r *Registry) Register(version int, module string, f Factory) error {
	if err := security.ValidateVersion(version); err != nil {
		return err
	}
	if err := security.ValidateModuleName(module); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("registry: factory for %s v%d cannot be nil", module, version)
	}

	k := key{version: version, typeName: core.HandlerTypeName(module)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[k]; exists {
		return fmt.Errorf("registry: %s already registered for v%d", k.typeName, version)
	}
	r.factories[k] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(version int, module string, f Factory) {
	if err := r.Register(version, module, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered for a version and handler type name.
func (r *Registry) Lookup(version int, typeName string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[key{version: version, typeName: typeName}]
	return f, ok
}

// Modules returns the registered handler type names for version, sorted.
func (r *Registry) Modules(version int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for k := range r.factories {
		if k.version == version {
			names = append(names, k.typeName)
		}
	}
	sort.Strings(names)
	return names
}

// Runtime returns a loader.Runtime serving this registry's modules.
func (r *Registry) Runtime() loader.Runtime {
	return &nativeRuntime{registry: r}
}

type nativeRuntime struct {
	registry *Registry
}

func (n *nativeRuntime) Ext() string { return NativeExt }

func (n *nativeRuntime) Load(_ context.Context, unit loader.Unit) (core.Handler, error) {
	f, ok := n.registry.Lookup(unit.Version, unit.TypeName)
	if !ok {
		return nil, nil
	}
	h, err := f()
	if m, isMethods := h.(core.Methods); isMethods && m == nil {
		return nil, err
	}
	return h, err
}

// Struct builds a Factory from a constructor of Go values. The exported
// nullary methods of each value become the module's operations; a method
// named Index is the default entry.
func Struct(newFn func() any) Factory {
	return func() (core.Handler, error) {
		v := newFn()
		if h, ok := v.(core.Handler); ok {
			return h, nil
		}
		h, err := handler.NewHandler(v)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
}

// Static builds a Factory that returns the same method set on every call.
// A nil set yields no handler, so the module is reported as undefined.
func Static(m core.Methods) Factory {
	return func() (core.Handler, error) {
		if m == nil {
			return nil, nil
		}
		return m, nil
	}
}
