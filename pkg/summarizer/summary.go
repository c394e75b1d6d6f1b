// Package summarizer builds and renders a report of a capture and encode run.
package summarizer

import (
	"time"

	"github.com/google/uuid"
)

// Summary contains all data collected during a run.
type Summary struct {
	// Metadata
	RunID       string
	GeneratedAt time.Time

	// Capture session results
	Capture CaptureInfo

	// Encoder invocation results
	Video VideoInfo
}

// CaptureInfo describes the capture session.
type CaptureInfo struct {
	Surface     string // Surface kind: widget, html or screen
	Width       int
	Height      int
	IntervalMs  int
	Frames      int // Frames written in this run
	Dropped     int // Captures discarded after an error
	TotalOnDisk int // Frames present when encoding started
	Directory   string
}

// VideoInfo describes the generated video.
type VideoInfo struct {
	Path       string
	Encoder    string
	FrameRate  int
	Success    bool
	ExitCode   int
	FileSize   int64
	Codec      string
	Samples    int
	DurationMs int
	ElapsedMs  int // Wall time of the encoder run
}

// NewSummary creates a new Summary with a fresh run ID and the current
// timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithCapture sets capture session information.
func (b *Builder) WithCapture(capture CaptureInfo) *Builder {
	b.summary.Capture = capture
	return b
}

// WithFrames sets the frame counts.
func (b *Builder) WithFrames(written, dropped, onDisk int) *Builder {
	b.summary.Capture.Frames = written
	b.summary.Capture.Dropped = dropped
	b.summary.Capture.TotalOnDisk = onDisk
	return b
}

// WithVideo sets video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
