// Package capture implements the capture driver: while a session is active
// it snapshots a surface on every tick and persists each snapshot as the
// next numbered frame.
package capture

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// Options configures a Driver.
type Options struct {
	Interval    time.Duration // Tick period for Run (default: 1/30 s)
	SettleDelay time.Duration // Wait applied once when the surface is mid-repaint (default: 20ms)
	MaxFrames   int           // Stop each session after this many frames (0: unlimited)
	StartIndex  int           // Initial counter value
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		Interval:    time.Second / 30,
		SettleDelay: 20 * time.Millisecond,
	}
}

// Driver owns the single capture session.
type Driver struct {
	surface ports.Surface
	sink    ports.FrameSink
	logger  ports.Logger
	opts    Options

	active atomic.Bool

	// mu serializes session start, index assignment, write and counter
	// increment.
	mu      sync.Mutex
	counter int
	base    int // counter value when the current session started
	dropped int

	limit       chan struct{} // closed when the current session hits MaxFrames
	limitClosed bool

	inflight sync.WaitGroup
}

// New creates a Driver with an inactive session.
func New(surface ports.Surface, sink ports.FrameSink, logger ports.Logger, opts Options) *Driver {
	defaults := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = defaults.Interval
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if opts.StartIndex < 0 {
		opts.StartIndex = 0
	}
	return &Driver{
		surface: surface,
		sink:    sink,
		logger:  logger.WithComponent("capture"),
		opts:    opts,
		counter: opts.StartIndex,
		base:    opts.StartIndex,
		limit:   make(chan struct{}),
	}
}

// Start activates a new session. The frame limit counts from here and
// LimitReached returns a fresh channel. Starting an active session does
// nothing and keeps the counter.
func (d *Driver) Start() {
	d.mu.Lock()
	if d.active.Load() {
		d.mu.Unlock()
		d.logger.Debug("Capture session already active")
		return
	}
	d.base = d.counter
	if d.limitClosed {
		d.limit = make(chan struct{})
		d.limitClosed = false
	}
	d.active.Store(true)
	start := d.counter
	d.mu.Unlock()

	d.logger.Info("Capture session started at frame %d", start)
}

// Stop clears the session flag. Captures already in flight still complete.
func (d *Driver) Stop() {
	if d.active.CompareAndSwap(true, false) {
		d.logger.Info("Capture session stopped after %d frames", d.FrameCount())
	}
}

// Active reports whether the session is active.
func (d *Driver) Active() bool {
	return d.active.Load()
}

// FrameCount returns the frame counter, which is also the next frame index.
func (d *Driver) FrameCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counter
}

// Stats returns counts for the session so far.
func (d *Driver) Stats() pipeline.CaptureStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return pipeline.CaptureStats{
		Frames:  d.counter - d.opts.StartIndex,
		Dropped: d.dropped,
	}
}

// Tick starts one capture in the background if the session is active.
// The capture is not cancelled when ctx ends.
func (d *Driver) Tick(ctx context.Context) {
	if !d.active.Load() {
		return
	}
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.capture(context.WithoutCancel(ctx))
	}()
}

// Run calls Tick every interval until ctx is done.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// LimitReached returns a channel that is closed once the current session
// has written MaxFrames frames.
func (d *Driver) LimitReached() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.limit
}

// Wait blocks until every capture started by Tick has finished.
func (d *Driver) Wait() {
	d.inflight.Wait()
}

// capture takes one snapshot and persists it. Errors are logged and the
// frame is dropped.
func (d *Driver) capture(ctx context.Context) {
	if d.surface.Repainting() && d.opts.SettleDelay > 0 {
		d.logger.Debug("Surface is repainting, waiting %s", d.opts.SettleDelay)
		time.Sleep(d.opts.SettleDelay)
	}

	img, err := d.surface.Snapshot(ctx)
	if err != nil {
		d.drop(err)
		return
	}

	d.mu.Lock()
	if d.limitReachedLocked() {
		d.mu.Unlock()
		return
	}
	index := d.counter
	if err := d.sink.SaveFrame(index, img); err != nil {
		d.dropped++
		d.mu.Unlock()
		d.logger.Warn("Frame dropped: %s", err)
		return
	}
	d.counter++
	stopped := false
	if d.limitReachedLocked() {
		stopped = d.active.CompareAndSwap(true, false)
		if !d.limitClosed {
			close(d.limit)
			d.limitClosed = true
		}
	}
	d.mu.Unlock()

	d.logger.Debug("Saved %s", frames.Name(index))
	if stopped {
		d.logger.Info("Frame limit %d reached", d.opts.MaxFrames)
	}
}

func (d *Driver) limitReachedLocked() bool {
	return d.opts.MaxFrames > 0 && d.counter-d.base >= d.opts.MaxFrames
}

func (d *Driver) drop(err error) {
	d.mu.Lock()
	d.dropped++
	d.mu.Unlock()
	d.logger.Warn("Frame dropped: %s", err)
}
