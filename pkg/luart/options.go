package luart

import (
	"log/slog"
	"time"
)

// DefaultTimeout bounds loading a module and running one of its operations.
const DefaultTimeout = 5 * time.Second

// Option configures a Runtime.
type Option interface {
	apply(*Runtime)
}

type optionFunc func(*Runtime)

func (f optionFunc) apply(r *Runtime) { f(r) }

// WithTimeout sets the execution timeout for loading and each operation.
// Zero disables the timeout; the caller's context still applies.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(r *Runtime) {
		r.timeout = d
	})
}

// WithLogger sets the logger that receives Lua print output.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	})
}
