// Package core provides the fundamental types and interfaces for the apigen package.
//
// This package contains:
//   - Request and Response values passed through a dispatch
//   - Handler and Method, the capability interface every API module satisfies
//   - Boundary, the response sink a transport hands to the dispatcher
//   - Error values for every dispatch fault
//
// Most users should import the root package github.com/jdziat/apigen
// instead of this package directly.
package core
