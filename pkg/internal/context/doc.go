// Package context provides internal context helpers for dispatch.
//
// This package is internal and should not be imported directly.
// It provides context value types for:
//   - Request: the request being dispatched, set by the dispatcher
//   - Request ID: the transport-assigned id, set by the HTTP layer
package context
