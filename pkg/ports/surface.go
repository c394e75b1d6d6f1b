package ports

import (
	"context"
	"image"
)

// Surface is a rendered, possibly animated, area that can be rasterized.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// Repainting reports whether a paint is currently in progress.
	// Sampling during a repaint may yield a partially updated frame.
	Repainting() bool

	// Snapshot rasterizes the current contents of the surface.
	Snapshot(ctx context.Context) (image.Image, error)
}
