package stats

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Option configures a Collector.
type Option interface {
	apply(*Collector)
}

type optionFunc func(*Collector)

func (f optionFunc) apply(c *Collector) { f(c) }

// WithLogger sets the logger summaries are written to.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithSchedule sets the cron expression summaries are logged on.
// Default: DefaultSchedule. Panics if expr does not parse.
func WithSchedule(expr string) Option {
	return optionFunc(func(c *Collector) {
		if expr != "" {
			c.schedule = MustParseSchedule(expr)
		}
	})
}

// WithCronSchedule sets an already parsed schedule.
func WithCronSchedule(s cron.Schedule) Option {
	return optionFunc(func(c *Collector) {
		if s != nil {
			c.schedule = s
		}
	})
}

func withClock(now func() time.Time) Option {
	return optionFunc(func(c *Collector) {
		c.now = now
	})
}
