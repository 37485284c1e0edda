// Package refresh keeps a display in sync with a station by polling it.
//
// Every tick the controller fetches a fresh snapshot and copies it onto the
// display. A failed cycle is logged and otherwise ignored: whatever was shown
// before stays on screen until a later cycle succeeds.
package refresh

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the cadence of the station page.
const DefaultInterval = time.Second

// Options tune a Controller. The zero value polls once a second,
// lets cycles overlap and logs to the standard logger.
type Options struct {
	Interval time.Duration
	// SingleFlight drops a tick while the previous cycle is still running.
	SingleFlight bool
	Logger       *log.Logger
}

// Stats counts what a controller has done so far.
type Stats struct {
	Cycles   int64
	Failures int64
	Skipped  int64
}

// Controller runs refresh cycles of a Source onto a Display.
type Controller struct {
	src    Source
	disp   Display
	opts   Options
	logger *log.Logger

	// tick builds the ticker driving Start; replaced in tests.
	tick func(time.Duration) (<-chan time.Time, func())

	cycles   atomic.Int64
	failures atomic.Int64
	skipped  atomic.Int64
	inFlight atomic.Bool
}

// NewController wires a source to a display.
func NewController(src Source, disp Display, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		src:    src,
		disp:   disp,
		opts:   opts,
		logger: logger,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Cycle runs one fetch and display update.
// On failure the display is not touched; the error is logged and returned.
func (c *Controller) Cycle(ctx context.Context) (err error) {
	c.cycles.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panic: %v", r)
		}
		if err == nil {
			return
		}
		c.failures.Add(1)
		if ctx.Err() == nil {
			c.logger.Printf("[Error] Error fetching data: %v", err)
		}
	}()

	snap, err := c.src.Fetch(ctx)
	if err != nil {
		return err
	}
	Apply(c.disp, snap)
	return nil
}

// Stats returns the counters of this controller.
func (c *Controller) Stats() Stats {
	return Stats{
		Cycles:   c.cycles.Load(),
		Failures: c.failures.Load(),
		Skipped:  c.skipped.Load(),
	}
}

// Handle owns a running refresh loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop ends the loop and waits for any cycle still running. Safe to call twice.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the loop has fully stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start runs a cycle every interval until the handle is stopped or ctx ends.
// The first cycle runs one interval after Start.
func (c *Controller) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	ticks, stop := c.tick(c.opts.Interval)

	go func() {
		var running sync.WaitGroup
		defer close(h.done)
		defer running.Wait()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
			}
			if c.opts.SingleFlight && !c.inFlight.CompareAndSwap(false, true) {
				c.skipped.Add(1)
				continue
			}
			running.Add(1)
			go func() {
				defer running.Done()
				if c.opts.SingleFlight {
					defer c.inFlight.Store(false)
				}
				c.Cycle(ctx)
			}()
		}
	}()
	return h
}
