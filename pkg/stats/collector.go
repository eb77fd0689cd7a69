package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jdziat/apigen/pkg/core"
)

// DefaultSchedule logs a summary every five minutes.
const DefaultSchedule = "*/5 * * * *"

// Outcome labels a counted dispatch.
const (
	OutcomeOK    = "ok"
	OutcomeFault = "fault"
)

// Hooks is the subset of *dispatch.Dispatcher a Collector attaches to.
type Hooks interface {
	OnComplete(fn func(context.Context, core.Request, time.Duration))
	OnFail(fn func(context.Context, core.Request, error))
}

// Key identifies a counter.
type Key struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
	Module  string `json:"module"`
	Method  string `json:"method"`
}

// Entry is one counter row in a Snapshot.
type Entry struct {
	Key
	OK      int64            `json:"ok"`
	Faults  int64            `json:"faults"`
	Codes   map[string]int64 `json:"codes,omitempty"`
	Elapsed time.Duration    `json:"elapsed_ns"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Since   time.Time `json:"since"`
	Total   int64     `json:"total"`
	Faults  int64     `json:"faults"`
	Entries []Entry   `json:"entries"`
}

type counters struct {
	ok      int64
	faults  int64
	codes   map[string]int64
	elapsed time.Duration
}

// Collector accumulates dispatch counters.
type Collector struct {
	logger   *slog.Logger
	schedule cron.Schedule
	now      func() time.Time

	mu       sync.Mutex
	since    time.Time
	counters map[Key]*counters

	// ready is closed once Start is waiting on the schedule.
	ready     chan struct{}
	readyOnce sync.Once
}

// NewCollector creates a Collector. It panics if the schedule given
// through WithSchedule is not a valid cron expression.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		logger:   slog.Default(),
		now:      time.Now,
		counters: make(map[Key]*counters),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	if c.schedule == nil {
		c.schedule = MustParseSchedule(DefaultSchedule)
	}
	c.since = c.now()
	return c
}

// ParseSchedule parses a five-field cron expression. Expressions that
// never match a real date, such as "0 0 30 2 *", are rejected.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("stats: invalid schedule %q: %w", expr, err)
	}
	if schedule.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("stats: invalid schedule %q: never fires", expr)
	}
	return schedule, nil
}

// MustParseSchedule is like ParseSchedule but panics on error.
func MustParseSchedule(expr string) cron.Schedule {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		panic(err)
	}
	return schedule
}

// Attach registers the collector on a dispatcher's hooks.
func (c *Collector) Attach(h Hooks) {
	h.OnComplete(func(_ context.Context, req core.Request, elapsed time.Duration) {
		c.Record(req, elapsed, nil)
	})
	h.OnFail(func(_ context.Context, req core.Request, err error) {
		c.Record(req, 0, err)
	})
}

// Record counts one dispatch. A nil err counts as success.
func (c *Collector) Record(req core.Request, elapsed time.Duration, err error) {
	key := Key{Format: req.Format, Version: req.Version, Module: req.Module, Method: req.Method}

	c.mu.Lock()
	defer c.mu.Unlock()

	ctr, ok := c.counters[key]
	if !ok {
		ctr = &counters{}
		c.counters[key] = ctr
	}
	if err == nil {
		ctr.ok++
		ctr.elapsed += elapsed
		return
	}
	ctr.faults++
	if ctr.codes == nil {
		ctr.codes = make(map[string]int64)
	}
	ctr.codes[core.Code(err)]++
}

// Snapshot returns a copy of the counters, sorted by key.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{Since: c.since, Entries: make([]Entry, 0, len(c.counters))}
	for key, ctr := range c.counters {
		e := Entry{Key: key, OK: ctr.ok, Faults: ctr.faults, Elapsed: ctr.elapsed}
		if len(ctr.codes) > 0 {
			e.Codes = make(map[string]int64, len(ctr.codes))
			for code, n := range ctr.codes {
				e.Codes[code] = n
			}
		}
		snap.Total += ctr.ok + ctr.faults
		snap.Faults += ctr.faults
		snap.Entries = append(snap.Entries, e)
	}

	sort.Slice(snap.Entries, func(i, j int) bool {
		a, b := snap.Entries[i].Key, snap.Entries[j].Key
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Format < b.Format
	})
	return snap
}

// Reset clears all counters.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.counters = make(map[Key]*counters)
	c.since = c.now()
	c.mu.Unlock()
}

// WaitReady blocks until Start is running.
func (c *Collector) WaitReady() {
	<-c.ready
}

// Start logs a summary on every schedule tick and once more on shutdown.
// Blocks until ctx is cancelled. A schedule with no next activation only
// reports on shutdown.
func (c *Collector) Start(ctx context.Context) {
	c.readyOnce.Do(func() { close(c.ready) })

	for {
		now := c.now()
		next := c.schedule.Next(now)
		if next.IsZero() {
			c.logger.Warn("dispatch stats: schedule has no next activation")
			<-ctx.Done()
			c.Report()
			return
		}
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			c.Report()
			return
		case <-timer.C:
			c.Report()
		}
	}
}

// Report logs the current totals and the busiest entries.
func (c *Collector) Report() {
	snap := c.Snapshot()
	if snap.Total == 0 {
		c.logger.Debug("dispatch stats: no traffic", "since", snap.Since)
		return
	}

	c.logger.Info("dispatch stats",
		"since", snap.Since,
		"total", snap.Total,
		"faults", snap.Faults,
		"routes", len(snap.Entries),
	)
	for _, e := range snap.Entries {
		c.logger.Debug("dispatch route",
			"format", e.Format,
			"version", e.Version,
			"module", e.Module,
			"method", e.Method,
			"ok", e.OK,
			"faults", e.Faults,
		)
	}
}
