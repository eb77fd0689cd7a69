package core

import (
	"context"
	"sort"
)

// Method is a nullary API operation. The context carries cancellation only;
// operations take no request parameters.
type Method func(ctx context.Context) (any, error)

// Handler is an instantiated API module.
type Handler interface {
	// Lookup returns the operation with the given name, if the module exposes it.
	Lookup(name string) (Method, bool)
}

// Methods is a Handler backed by a plain name to operation map.
type Methods map[string]Method

// Lookup implements Handler.
func (m Methods) Lookup(name string) (Method, bool) {
	fn, ok := m[name]
	if !ok || fn == nil {
		return nil, false
	}
	return fn, true
}

// Names returns the operation names in sorted order.
func (m Methods) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns a Method that always yields v.
func Value(v any) Method {
	return func(context.Context) (any, error) {
		return v, nil
	}
}
