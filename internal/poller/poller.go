// Package poller runs a fixed-interval refresh loop.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// TickFunc performs one refresh. Errors are logged; they never stop the
// loop.
type TickFunc func(ctx context.Context) error

// Runner calls a TickFunc at a fixed interval until its context is
// cancelled. The dashboard snapshot refresh runs on one of these.
type Runner struct {
	name     string
	interval time.Duration
	tick     TickFunc
	log      *slog.Logger
}

// Options holds the dependencies for creating a Runner.
type Options struct {
	Name     string
	Interval time.Duration
	Tick     TickFunc
	Logger   *slog.Logger
}

// NewRunner creates a poller. Interval defaults to 5 seconds.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Tick == nil {
		return nil, errors.New("tick function is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	name := opts.Name
	if name == "" {
		name = "poller"
	}
	return &Runner{name: name, interval: interval, tick: opts.Tick, log: log}, nil
}

// Run ticks until ctx is cancelled. An immediate first tick warms the
// state before the first interval elapses. Cancellation returns nil.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("poller starting", "name", r.name, "interval", r.interval)

	if err := r.tick(ctx); err != nil && ctx.Err() == nil {
		r.log.Error("poller tick failed", "name", r.name, "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("poller stopping", "name", r.name, "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				r.log.Error("poller tick failed", "name", r.name, "error", err)
			}
		}
	}
}
