package core

import (
	"errors"
	"fmt"
)

// Dispatch faults. Every dispatch failure wraps exactly one of these.
var (
	ErrMissingConfig          = errors.New("apigen: api_root is not configured")
	ErrInvalidVersion         = errors.New("apigen: invalid API version")
	ErrInvalidModule          = errors.New("apigen: invalid API module")
	ErrInvalidModuleOrVersion = errors.New("apigen: invalid API module or version")
	ErrInvalidMethod          = errors.New("apigen: invalid API method")
	ErrInvalidFormat          = errors.New("apigen: invalid data format")
	ErrLoadFailed             = errors.New("apigen: module failed to load")
	ErrMethodFailed           = errors.New("apigen: API method failed")
	ErrEncode                 = errors.New("apigen: failed to encode result")
)

// Fault ties a dispatch error to the request that produced it.
type Fault struct {
	Request Request
	Err     error
}

func (e *Fault) Error() string {
	return fmt.Sprintf("%s: %v", e.Request, e.Err)
}

func (e *Fault) Unwrap() error {
	return e.Err
}

// NewFault wraps err with the request that produced it.
// A nil err yields nil, and an existing Fault is returned unchanged.
func NewFault(req Request, err error) error {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return err
	}
	return &Fault{Request: req, Err: err}
}

// Code returns a short stable identifier for the fault class of err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrInvalidVersion):
		return "invalid_version"
	case errors.Is(err, ErrInvalidModuleOrVersion):
		return "invalid_module_or_version"
	case errors.Is(err, ErrInvalidModule):
		return "invalid_module"
	case errors.Is(err, ErrInvalidMethod):
		return "invalid_method"
	case errors.Is(err, ErrMissingConfig):
		return "missing_configuration"
	default:
		return "internal"
	}
}
