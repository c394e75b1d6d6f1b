// Package screensurface captures a region of the desktop as a surface.
package screensurface

import (
	"context"
	"fmt"
	"image"

	"github.com/vova616/screenshot"

	"github.com/user/framereel/pkg/ports"
)

// Surface implements ports.Surface over a fixed screen rectangle.
// The desktop gives no repaint signal, so Repainting is always false.
type Surface struct {
	rect image.Rectangle
	grab func(image.Rectangle) (*image.RGBA, error)
}

// New captures rect, or the whole primary screen when rect is empty.
func New(rect image.Rectangle) (*Surface, error) {
	if rect.Empty() {
		screen, err := screenshot.ScreenRect()
		if err != nil {
			return nil, fmt.Errorf("query screen size: %w", err)
		}
		rect = screen
	}
	return &Surface{rect: rect, grab: screenshot.CaptureRect}, nil
}

// Size returns the captured region size.
func (s *Surface) Size() (int, int) {
	return s.rect.Dx(), s.rect.Dy()
}

// Repainting always reports false.
func (s *Surface) Repainting() bool {
	return false
}

// Snapshot grabs the region.
func (s *Surface) Snapshot(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := s.grab(s.rect)
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// ParseRegion parses "x,y,w,h" into a rectangle. An empty string yields
// the empty rectangle.
func ParseRegion(s string) (image.Rectangle, error) {
	if s == "" {
		return image.Rectangle{}, nil
	}
	var x, y, w, h int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid region %q (want x,y,w,h): %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q: width and height must be positive", s)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
