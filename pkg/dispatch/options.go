package dispatch

import (
	"log/slog"

	"github.com/jdziat/apigen/pkg/doc"
	"github.com/jdziat/apigen/pkg/format"
)

// Option configures a Dispatcher.
type Option interface {
	apply(*Dispatcher)
}

type optionFunc func(*Dispatcher)

func (f optionFunc) apply(d *Dispatcher) { f(d) }

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	})
}

// WithDocumenter sets the documentation renderer. Default: doc.Nop.
func WithDocumenter(docs doc.Documenter) Option {
	return optionFunc(func(d *Dispatcher) {
		if docs != nil {
			d.docs = docs
		}
	})
}

// WithFormats sets the encoder registry. Default: format.Default().
func WithFormats(formats *format.Registry) Option {
	return optionFunc(func(d *Dispatcher) {
		if formats != nil {
			d.formats = formats
		}
	})
}
