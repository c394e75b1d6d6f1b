// Package orchestrator wires the directory resolver, capture driver and
// encode invoker into a single screen-like controller.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/framereel/pkg/adapters/codecdetect"
	"github.com/user/framereel/pkg/adapters/filesink"
	"github.com/user/framereel/pkg/capture"
	"github.com/user/framereel/pkg/dirs"
	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// ErrNotReady is returned by operations that need a resolved layout.
var ErrNotReady = errors.New("orchestrator: not initialized")

// Config contains all configuration for the orchestrator.
type Config struct {
	// Capture
	Interval    time.Duration
	SettleDelay time.Duration
	MaxFrames   int
	FrameWidth  int // Scale frames to this size (0: keep surface size)
	FrameHeight int
	Clean       bool // Remove existing frames on Init instead of continuing their numbering

	// Encoding
	FrameRate        int
	PreferredEncoder string
	FallbackEncoder  string
	PixFmt           string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	capt := capture.DefaultOptions()
	return Config{
		Interval:         capt.Interval,
		SettleDelay:      capt.SettleDelay,
		FrameRate:        pipeline.DefaultFrameRate,
		PreferredEncoder: pipeline.EncoderH264,
		FallbackEncoder:  pipeline.EncoderMPEG4,
		PixFmt:           pipeline.DefaultPixFmt,
	}
}

// LayoutResolver resolves the output directory tree.
type LayoutResolver interface {
	Resolve(ctx context.Context) (dirs.Layout, error)
	ClearFrames(layout dirs.Layout) (int, error)
}

// Orchestrator owns one capture session and the encode step.
type Orchestrator struct {
	resolver    LayoutResolver
	surface     ports.Surface
	renderer    ports.Renderer
	fs          ports.FileSystem
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	logger      ports.Logger
	config      Config

	mu        sync.Mutex
	layout    dirs.Layout
	driver    *capture.Driver
	stopTicks context.CancelFunc // ends the running ticker, nil when idle
	ticksDone chan struct{}
	tickLimit <-chan struct{} // limit channel the running ticker watches
}

// New creates a new Orchestrator. It is not ready until Init succeeds.
func New(
	resolver LayoutResolver,
	surface ports.Surface,
	renderer ports.Renderer,
	fs ports.FileSystem,
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	logger ports.Logger,
	config Config,
) *Orchestrator {
	return &Orchestrator{
		resolver:    resolver,
		surface:     surface,
		renderer:    renderer,
		fs:          fs,
		encodeStage: encodeStage,
		logger:      logger,
		config:      config,
	}
}

// Init resolves the output directories and prepares the capture driver.
// Failures are logged and leave the orchestrator not ready.
func (o *Orchestrator) Init(ctx context.Context) {
	o.logger.Info("Initializing output directories")

	layout, err := o.resolver.Resolve(ctx)
	if err != nil {
		o.logger.Error("Initialization aborted: %s", err)
		return
	}

	if o.config.Clean {
		if _, err := o.resolver.ClearFrames(layout); err != nil {
			o.logger.Error("Initialization aborted: %s", err)
			return
		}
	}

	start, err := frames.Next(o.fs, layout.Frames)
	if err != nil {
		o.logger.Error("Initialization aborted: %s", err)
		return
	}

	sink := filesink.New(layout.Frames, o.fs, o.renderer).
		WithSize(o.config.FrameWidth, o.config.FrameHeight)
	driver := capture.New(o.surface, sink, o.logger, capture.Options{
		Interval:    o.config.Interval,
		SettleDelay: o.config.SettleDelay,
		MaxFrames:   o.config.MaxFrames,
		StartIndex:  start,
	})

	o.mu.Lock()
	o.layout = layout
	o.driver = driver
	o.mu.Unlock()

	o.logger.Info("Output directories ready under %s", layout.Base)
}

// Ready reports whether Init succeeded.
func (o *Orchestrator) Ready() bool {
	return o.currentDriver() != nil
}

// Layout returns the resolved layout, zero before Init succeeds.
func (o *Orchestrator) Layout() dirs.Layout {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.layout
}

// Driver returns the capture driver, nil before Init succeeds.
func (o *Orchestrator) Driver() *capture.Driver {
	return o.currentDriver()
}

// StartCapture starts the capture session and a ticker that captures one
// frame per interval until StopCapture.
func (o *Orchestrator) StartCapture() {
	if o.currentDriver() == nil {
		o.logger.Warn("Not initialized, ignoring %s", "start")
		return
	}
	o.startTicking(context.Background())
}

// StopCapture stops the capture session and its ticker. In-flight captures
// still finish.
func (o *Orchestrator) StopCapture() {
	d := o.currentDriver()
	if d == nil {
		o.logger.Warn("Not initialized, ignoring %s", "stop")
		return
	}
	d.Stop()

	o.mu.Lock()
	stop, done := o.stopTicks, o.ticksDone
	o.stopTicks, o.ticksDone, o.tickLimit = nil, nil, nil
	o.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

// startTicking activates the session and runs the driver's ticker until
// parent ends, StopCapture is called or the frame limit is reached.
// It returns a channel closed when the ticker has exited.
func (o *Orchestrator) startTicking(parent context.Context) <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	d := o.driver
	if o.stopTicks != nil {
		select {
		case <-o.tickLimit:
		case <-o.ticksDone:
		default:
			d.Start()
			return o.ticksDone
		}
		// The running ticker hit the frame limit or its context ended.
		o.stopTicks()
		<-o.ticksDone
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	d.Start()
	limit := d.LimitReached()
	o.stopTicks, o.ticksDone, o.tickLimit = cancel, done, limit
	go func() {
		defer close(done)
		go func() {
			select {
			case <-limit:
				cancel()
			case <-ctx.Done():
			}
		}()
		d.Run(ctx)
	}()
	return done
}

// Record captures for duration (0: until ctx ends or the frame limit is
// reached), then stops the session and waits for in-flight captures.
func (o *Orchestrator) Record(ctx context.Context, duration time.Duration) (pipeline.CaptureStats, error) {
	d := o.currentDriver()
	if d == nil {
		o.logger.Warn("Not initialized, ignoring %s", "record")
		return pipeline.CaptureStats{}, ErrNotReady
	}

	runCtx := ctx
	if duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
		o.logger.Info("Recording for %s...", duration)
	}

	select {
	case <-o.startTicking(runCtx):
	case <-runCtx.Done():
	}
	o.StopCapture()
	d.Wait()

	return d.Stats(), nil
}

// GenerateResult reports the outcome of Generate.
type GenerateResult struct {
	Success    bool
	Encoder    string
	OutputPath string
	ExitCode   int
	Frames     int
	FileSize   int64
	Info       codecdetect.Info
	Elapsed    time.Duration
	Err        error
}

// Generate encodes the frames on disk into the output video.
// Failures are logged and reported through Success.
func (o *Orchestrator) Generate(ctx context.Context) GenerateResult {
	if !o.Ready() {
		o.logger.Warn("Not initialized, ignoring %s", "generate")
		return GenerateResult{Err: ErrNotReady}
	}
	layout := o.Layout()
	result := GenerateResult{OutputPath: layout.OutputPath()}

	names, err := frames.List(o.fs, layout.Frames)
	if err != nil {
		o.logger.Error("Cannot list frames: %s", err)
		result.Err = err
		return result
	}
	result.Frames = len(names)
	if result.Frames == 0 {
		o.logger.Warn("No frames captured yet")
	}

	input := pipeline.EncodeInput{
		FramesDir:        layout.Frames,
		OutputPath:       layout.OutputPath(),
		FrameRate:        o.config.FrameRate,
		PreferredEncoder: o.config.PreferredEncoder,
		FallbackEncoder:  o.config.FallbackEncoder,
		PixFmt:           o.config.PixFmt,
		FrameCount:       result.Frames,
	}

	started := time.Now()
	encoded, err := o.encodeStage.Execute(ctx, input)
	result.Elapsed = time.Since(started)
	result.Encoder = encoded.Encoder
	result.ExitCode = encoded.ExitCode
	if err != nil {
		result.Err = err
		return result
	}
	if !encoded.Success {
		result.Err = &ExitError{Code: encoded.ExitCode}
		return result
	}

	result.Success = true
	result.FileSize = encoded.FileSize
	result.Info = encoded.Info
	o.logger.Info("Output saved to %s", result.OutputPath)
	return result
}

func (o *Orchestrator) currentDriver() *capture.Driver {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.driver
}
