package format

import (
	"bytes"
	"encoding/json"
)

// JSON encodes results as JSON.
type JSON struct{}

// Name implements Encoder.
func (JSON) Name() string { return "json" }

// ContentType implements Encoder.
func (JSON) ContentType() string { return "application/json" }

// Encode implements Encoder. HTML characters are not escaped and no
// trailing newline is written.
func (JSON) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
