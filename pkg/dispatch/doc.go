// Package dispatch provides the Dispatcher, which turns a request into a
// serialized response.
//
// A dispatch either renders documentation (format "doc") or calls the
// requested module operation through a Caller and encodes its result
// with the encoder registered for the format. Unknown formats are
// rejected before the Caller is touched. Every failure is returned as a
// core.Fault wrapping one of the core error values; nothing is written
// to a Boundary unless the dispatch succeeded.
//
// Most users should import the root package github.com/jdziat/apigen,
// which wires a Dispatcher to a loader.
package dispatch
