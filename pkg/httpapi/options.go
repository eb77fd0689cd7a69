package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/jdziat/apigen/pkg/stats"
)

// Option configures the HTTP handler.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	logger     *slog.Logger
	stats      *stats.Collector
	middleware func(http.Handler) http.Handler
}

// WithLogger sets the access logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithStats serves the collector's snapshot at GET /stats.
// Without it /stats answers 404.
func WithStats(collector *stats.Collector) Option {
	return optionFunc(func(c *config) {
		c.stats = collector
	})
}

// WithMiddleware wraps the handler with middleware (auth, logging, etc.).
func WithMiddleware(mw func(http.Handler) http.Handler) Option {
	return optionFunc(func(c *config) {
		c.middleware = mw
	})
}
