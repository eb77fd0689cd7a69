package apigen

import (
	"errors"

	"github.com/jdziat/apigen/pkg/core"
)

// Dispatch faults.
var (
	ErrMissingConfig          = core.ErrMissingConfig
	ErrInvalidVersion         = core.ErrInvalidVersion
	ErrInvalidModule          = core.ErrInvalidModule
	ErrInvalidModuleOrVersion = core.ErrInvalidModuleOrVersion
	ErrInvalidMethod          = core.ErrInvalidMethod
	ErrInvalidFormat          = core.ErrInvalidFormat
	ErrLoadFailed             = core.ErrLoadFailed
	ErrMethodFailed           = core.ErrMethodFailed
	ErrEncode                 = core.ErrEncode
)

// ErrorCode returns the stable fault code for err.
func ErrorCode(err error) string {
	return core.Code(err)
}

// IsClientError reports whether err blames the request rather than the
// server: an unknown format, version, module or method.
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, core.ErrInvalidFormat),
		errors.Is(err, core.ErrInvalidVersion),
		errors.Is(err, core.ErrInvalidModule),
		errors.Is(err, core.ErrInvalidModuleOrVersion),
		errors.Is(err, core.ErrInvalidMethod):
		return true
	}
	return false
}
