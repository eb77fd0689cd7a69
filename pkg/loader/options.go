package loader

import "log/slog"

// Option configures a Loader.
type Option interface {
	apply(*Loader)
}

type optionFunc func(*Loader)

func (f optionFunc) apply(l *Loader) { f(l) }

// WithRuntime adds a source runtime. Runtimes are probed in the order added.
func WithRuntime(rt Runtime) Option {
	return optionFunc(func(l *Loader) {
		if rt != nil {
			l.runtimes = append(l.runtimes, rt)
		}
	})
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	})
}
