// Package security provides validation, sanitization, and limits for the apigen package.
//
// This package includes:
//   - Input validation for module names, method names and API versions
//   - Error message sanitization before messages leave the process
//   - Security-related constants defining maximum sizes
//
// Module and method names end up in filesystem paths and symbol lookups,
// so every name is validated before the loader touches either.
package security
