// Package stats counts dispatches and periodically logs a summary.
//
// A Collector attaches to a dispatcher's lifecycle hooks and keeps
// in-memory counters keyed by version, module, method and outcome:
//
//	c := stats.NewCollector()
//	c.Attach(d)
//	go c.Start(ctx) // logs a summary on the configured cron schedule
//
// Counters are not persisted; they reset with the process.
package stats
