package poller

import (
	"context"
	"time"
)

// DefaultInterval is the pause between the end of one tick and the start of the next.
const DefaultInterval = 60 * time.Second

// RunOptions holds all parameters for the polling loop.
type RunOptions struct {
	// Interval between ticks; DefaultInterval when zero.
	Interval time.Duration
	// TickChan replaces the interval timer (for testing). The first tick still runs immediately.
	TickChan <-chan time.Time
	// OnTick is called after every tick with its result (for testing and status output).
	OnTick func(err error)
}

// Run ticks once immediately and then after every interval until ctx is cancelled.
// Ticks and alert closes are handled on this goroutine only, so they never overlap.
// A failed tick does not stop the loop.
func (e *Engine) Run(ctx context.Context, opts RunOptions) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	tick := func() {
		err := e.Tick(ctx)
		if opts.OnTick != nil {
			opts.OnTick(err)
		}
	}

	var timer *time.Timer
	tickChan := opts.TickChan
	if tickChan == nil {
		timer = time.NewTimer(interval)
		defer timer.Stop()
		tickChan = timer.C
	}

	tick()
	if timer != nil {
		timer.Reset(interval)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-e.closed:
			_ = e.handleClose(ctx, ev)
		case _, ok := <-tickChan:
			if !ok {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			tick()
			if timer != nil {
				timer.Reset(interval)
			}
		}
	}
}
