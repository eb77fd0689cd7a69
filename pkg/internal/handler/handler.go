// Package handler provides reflection-based handler construction for the apigen package.
package handler

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/jdziat/apigen/pkg/core"
)

// DefaultMethodName is the Go method that serves core.DefaultMethod.
const DefaultMethodName = "Index"

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Handler exposes the exported nullary methods of a Go value as API operations.
type Handler struct {
	Target  reflect.Value
	methods map[string]*method
}

type method struct {
	Name       string
	Fn         reflect.Value
	HasContext bool
	HasResult  bool
	HasError   bool
}

// NewHandler creates a Handler from a Go value, usually a pointer to a struct.
// Exported methods with one of these signatures become operations:
//
//	func() T
//	func() error
//	func() (T, error)
//
// each optionally taking a leading context.Context. Other methods are ignored.
// A value without any usable method is rejected.
func NewHandler(v any) (*Handler, error) {
	if v == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr && val.IsNil() {
		return nil, fmt.Errorf("handler value cannot be a nil pointer")
	}
	if val.Kind() == reflect.Func {
		return nil, fmt.Errorf("handler must be a value with methods, not a function")
	}

	h := &Handler{
		Target:  val,
		methods: make(map[string]*method),
	}

	typ := val.Type()
	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		if !m.IsExported() {
			continue
		}
		parsed, ok := parseMethod(m.Name, val.Method(i))
		if !ok {
			continue
		}
		key := strings.ToLower(m.Name)
		if _, exists := h.methods[key]; exists {
			return nil, fmt.Errorf("handler method %q collides with another method", m.Name)
		}
		h.methods[key] = parsed
	}

	if len(h.methods) == 0 {
		return nil, fmt.Errorf("handler %s has no usable methods", typ)
	}

	return h, nil
}

func parseMethod(name string, fn reflect.Value) (*method, bool) {
	fnType := fn.Type()

	m := &method{Name: name, Fn: fn}

	switch fnType.NumIn() {
	case 0:
	case 1:
		if fnType.In(0) != contextType {
			return nil, false
		}
		m.HasContext = true
	default:
		return nil, false
	}

	switch fnType.NumOut() {
	case 1:
		if fnType.Out(0) == errorType {
			m.HasError = true
		} else {
			m.HasResult = true
		}
	case 2:
		if fnType.Out(1) != errorType {
			return nil, false
		}
		m.HasResult = true
		m.HasError = true
	default:
		return nil, false
	}

	return m, true
}

// Lookup implements core.Handler.
// Names match case-insensitively; core.DefaultMethod selects the Index method.
func (h *Handler) Lookup(name string) (core.Method, bool) {
	key := strings.ToLower(name)
	if name == core.DefaultMethod {
		key = strings.ToLower(DefaultMethodName)
	}

	m, ok := h.methods[key]
	if !ok {
		return nil, false
	}
	return m.call, true
}

// Names returns the Go names of all exposed methods, sorted.
func (h *Handler) Names() []string {
	names := make([]string, 0, len(h.methods))
	for _, m := range h.methods {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

func (m *method) call(ctx context.Context) (any, error) {
	// Defensive check: ensure the bound method is valid
	if !m.Fn.IsValid() {
		return nil, fmt.Errorf("handler method %q is invalid", m.Name)
	}

	var args []reflect.Value
	if m.HasContext {
		args = append(args, reflect.ValueOf(&ctx).Elem())
	}

	results := m.Fn.Call(args)

	var result any
	if m.HasResult && results[0].CanInterface() {
		result = results[0].Interface()
	}

	if m.HasError {
		errVal := results[len(results)-1]
		if !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}

	return result, nil
}
