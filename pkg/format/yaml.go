package format

import "github.com/goccy/go-yaml"

// YAML encodes results as YAML.
type YAML struct{}

// Name implements Encoder.
func (YAML) Name() string { return "yaml" }

// ContentType implements Encoder.
func (YAML) ContentType() string { return "application/yaml" }

// Encode implements Encoder.
func (YAML) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
