// Package handler provides internal reflection-based handler construction.
//
// This package is internal and should not be imported directly.
// It provides:
//   - Handler: a core.Handler built from the exported methods of a Go value
//   - Signature validation for nullary API operations
//   - Case-insensitive method lookup with Index as the default entry
package handler
