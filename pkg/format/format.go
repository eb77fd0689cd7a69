package format

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jdziat/apigen/pkg/core"
)

// Encoder serializes dispatch results.
type Encoder interface {
	// Name is the format name requests select the encoder by.
	Name() string
	// ContentType is the media type of the encoded output.
	ContentType() string
	// Encode serializes v.
	Encode(v any) ([]byte, error)
}

// Registry maps format names to encoders.
type Registry struct {
	encoders map[string]Encoder
	mu       sync.RWMutex
}

// NewRegistry creates a registry holding the given encoders.
// It panics if an encoder cannot be registered.
func NewRegistry(encoders ...Encoder) *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, enc := range encoders {
		if err := r.Register(enc); err != nil {
			panic(err)
		}
	}
	return r
}

// Default returns a registry with the json, php and yaml encoders.
func Default() *Registry {
	return NewRegistry(JSON{}, PHP{}, YAML{})
}

// Register adds an encoder under its name.
func (r *Registry) Register(enc Encoder) error {
	if enc == nil {
		return fmt.Errorf("format: encoder cannot be nil")
	}
	name := enc.Name()
	if name == "" {
		return fmt.Errorf("format: encoder name cannot be empty")
	}
	if name == core.FormatDoc {
		return fmt.Errorf("format: %q is reserved", core.FormatDoc)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encoders[name]; exists {
		return fmt.Errorf("format: %q already registered", name)
	}
	r.encoders[name] = enc
	return nil
}

// Lookup returns the encoder for name.
func (r *Registry) Lookup(name string) (Encoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, ok := r.encoders[name]
	return enc, ok
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Encode serializes v with the named encoder.
func (r *Registry) Encode(name string, v any) (*core.Response, error) {
	enc, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidFormat, name)
	}
	body, err := enc.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrEncode, name, err)
	}
	return &core.Response{ContentType: enc.ContentType(), Body: body}, nil
}
