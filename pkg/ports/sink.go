package ports

import (
	"image"
)

// FrameSink persists captured frames.
type FrameSink interface {
	// SaveFrame encodes img and stores it under the file name for index.
	SaveFrame(index int, img image.Image) error
}
