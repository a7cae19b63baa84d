// Package poller schedules reconciliation passes on a cancellable ticker
// with an explicit trigger channel for immediate resync.
package poller

import (
	"context"
	"time"
)

// Poller invokes a function periodically and on demand. It runs one pass
// at a time by construction: a single goroutine owns the loop.
type Poller struct {
	interval time.Duration
	run      func(context.Context)
	trigger  chan struct{}
}

// New creates a poller that calls run every interval.
func New(interval time.Duration, run func(context.Context)) *Poller {
	return &Poller{
		interval: interval,
		run:      run,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate pass. Requests arriving while a trigger is
// already pending coalesce into one.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run executes an initial pass and then loops until ctx is cancelled,
// waking on the ticker or on Trigger.
func (p *Poller) Run(ctx context.Context) {
	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.trigger:
		}
		p.run(ctx)
	}
}
