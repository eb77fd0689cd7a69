// Package format provides the wire encoders a dispatch result can be serialized with.
//
// Built-in encoders:
//   - json: application/json
//   - php:  text/plain, PHP serialize() format for PHP consumers
//   - yaml: application/yaml
//
// The name "doc" is reserved for documentation rendering and cannot be
// registered as an encoder.
package format
