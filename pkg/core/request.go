// Package core provides the domain models and interfaces for the apigen package.
package core

import "fmt"

// FormatDoc is the reserved format that routes to documentation rendering.
const FormatDoc = "doc"

// DefaultMethod is the operation invoked when a request names no method.
const DefaultMethod = "_index"

// HandlerTypePrefix is prepended to a module name to form its handler type name.
const HandlerTypePrefix = "Api_"

// HandlerTypeName returns the canonical handler type name for a module.
func HandlerTypeName(module string) string {
	return HandlerTypePrefix + module
}

// VersionDir returns the directory name holding the modules of an API version.
func VersionDir(version int) string {
	return fmt.Sprintf("v%d", version)
}

// Request identifies a single dispatch.
// Module and Method are optional; empty means absent.
type Request struct {
	Format  string
	Version int
	Module  string
	Method  string
}

// String renders the request as format/vN/module/method for logs.
func (r Request) String() string {
	s := fmt.Sprintf("%s/%s", r.Format, VersionDir(r.Version))
	if r.Module != "" {
		s += "/" + r.Module
	}
	if r.Method != "" {
		s += "/" + r.Method
	}
	return s
}

// Response is the serialized output of a dispatch.
type Response struct {
	ContentType string
	Body        []byte
}

// Boundary receives a successful response.
// Transports implement it; nothing is written to it when a dispatch faults.
type Boundary interface {
	SetContentType(contentType string)
	Write(p []byte) (int, error)
}
