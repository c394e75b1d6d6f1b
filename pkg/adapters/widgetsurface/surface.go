// Package widgetsurface provides an animated widget painted with the gg library.
//
// The widget is a card that pulses gently, a spinner arc that completes one
// turn per period, an orbiting dot, a caption and an elapsed-time readout.
// A background animation loop repaints it; Snapshot returns the last
// completed paint.
package widgetsurface

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framereel/pkg/ports"
)

// Options configures the widget appearance and animation rate.
type Options struct {
	Width      int
	Height     int
	Background color.Color
	Card       color.Color
	Accent     color.Color
	Text       color.Color
	Caption    string
	FontPath   string
	FPS        float64       // Repaint rate of the animation loop (default: 60)
	Period     time.Duration // Time for one spinner revolution (default: 2s)
}

// DefaultOptions returns the default widget appearance.
func DefaultOptions() Options {
	return Options{
		Width:      320,
		Height:     240,
		Background: color.RGBA{R: 26, G: 26, B: 46, A: 255},   // #1a1a2e
		Card:       color.RGBA{R: 51, G: 51, B: 85, A: 255},   // #333355
		Accent:     color.RGBA{R: 74, G: 222, B: 128, A: 255}, // #4ade80
		Text:       color.White,
		Caption:    "framereel",
		FPS:        60,
		Period:     2 * time.Second,
	}
}

// Surface is an animated widget implementing ports.Surface.
type Surface struct {
	renderer ports.Renderer
	opts     Options
	now      func() time.Time
	start    time.Time

	painting atomic.Bool
	paints   atomic.Int64

	mu      sync.RWMutex
	current image.Image
}

// New creates the widget and paints its first frame.
func New(renderer ports.Renderer, opts Options) *Surface {
	return newWithClock(renderer, opts, time.Now)
}

func newWithClock(renderer ports.Renderer, opts Options, now func() time.Time) *Surface {
	def := DefaultOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.Background == nil {
		opts.Background = def.Background
	}
	if opts.Card == nil {
		opts.Card = def.Card
	}
	if opts.Accent == nil {
		opts.Accent = def.Accent
	}
	if opts.Text == nil {
		opts.Text = def.Text
	}
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	if opts.Period <= 0 {
		opts.Period = def.Period
	}

	s := &Surface{
		renderer: renderer,
		opts:     opts,
		now:      now,
		start:    now(),
	}
	s.Paint()
	return s
}

// Size returns the widget dimensions.
func (s *Surface) Size() (int, int) {
	return s.opts.Width, s.opts.Height
}

// Repainting reports whether a paint is in progress.
func (s *Surface) Repainting() bool {
	return s.painting.Load()
}

// Paints returns the number of completed paints.
func (s *Surface) Paints() int64 {
	return s.paints.Load()
}

// Snapshot returns the last completed paint. Published images are never
// drawn on again, so the result is safe to keep.
func (s *Surface) Snapshot(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, fmt.Errorf("widgetsurface: nothing painted yet")
	}
	return s.current, nil
}

// Animate repaints the widget at the configured rate until ctx is done.
func (s *Surface) Animate(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / s.opts.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Paint()
		}
	}
}

// Paint renders the widget for the current animation time.
func (s *Surface) Paint() {
	s.painting.Store(true)
	defer s.painting.Store(false)

	elapsed := s.now().Sub(s.start)
	img := s.render(elapsed)

	s.mu.Lock()
	s.current = img
	s.mu.Unlock()
	s.paints.Add(1)
}

func (s *Surface) render(elapsed time.Duration) image.Image {
	w, h := float64(s.opts.Width), float64(s.opts.Height)
	phase := math.Mod(elapsed.Seconds()/s.opts.Period.Seconds(), 1)
	angle := phase * 2 * math.Pi

	canvas := s.renderer.CreateCanvas(s.opts.Width, s.opts.Height, s.opts.Background)

	// Card breathes between 88% and 96% of the surface.
	scale := 0.92 + 0.04*math.Sin(angle)
	cw, ch := w*scale, h*scale
	canvas.DrawRoundedRect((w-cw)/2, (h-ch)/2, cw, ch, math.Min(w, h)*0.06, s.opts.Card)

	cx, cy := w/2, h*0.42
	r := math.Min(w, h) * 0.2
	stroke := math.Max(2, r*0.18)

	// Spinner: a quarter-turn arc sweeping once per period.
	canvas.DrawArc(cx, cy, r, angle-math.Pi/2, angle, s.opts.Accent, stroke)

	// Dot orbiting in the opposite direction.
	dotAngle := -angle * 2
	canvas.DrawCircle(cx+r*0.55*math.Cos(dotAngle), cy+r*0.55*math.Sin(dotAngle), stroke*0.6, s.opts.Text)

	fontSize := math.Max(10, h*0.07)
	canvas.DrawText(s.opts.Caption, cx, h*0.74, ports.TextStyle{
		FontSize: fontSize,
		FontPath: s.opts.FontPath,
		Color:    s.opts.Text,
		Align:    ports.AlignCenter,
	})
	canvas.DrawText(fmt.Sprintf("%.2f s", elapsed.Seconds()), cx, h*0.84, ports.TextStyle{
		FontSize: fontSize * 0.8,
		FontPath: s.opts.FontPath,
		Color:    s.opts.Accent,
		Align:    ports.AlignCenter,
	})

	return canvas.ToImage()
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
