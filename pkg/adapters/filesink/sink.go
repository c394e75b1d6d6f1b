// Package filesink provides a frame sink that writes numbered PNG files.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/ports"
)

// Sink saves frames as PNG files in a single directory.
type Sink struct {
	dir      string
	fs       ports.FileSystem
	renderer ports.Renderer
	width    int
	height   int
}

// New creates a new Sink writing into dir.
func New(dir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		dir:      dir,
		fs:       fs,
		renderer: renderer,
	}
}

// WithSize makes the sink scale every frame to width x height.
// Zero values keep the snapshot size.
func (s *Sink) WithSize(width, height int) *Sink {
	s.width, s.height = width, height
	return s
}

// Dir returns the directory frames are written to.
func (s *Sink) Dir() string {
	return s.dir
}

// Path returns the full path of the frame file for index.
func (s *Sink) Path(index int) string {
	return filepath.Join(s.dir, frames.Name(index))
}

// SaveFrame encodes img as PNG and writes it under the name for index.
func (s *Sink) SaveFrame(index int, img image.Image) error {
	img = s.fit(img)
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}
	if err := s.fs.WriteFile(s.Path(index), data); err != nil {
		return fmt.Errorf("write frame %d: %w", index, err)
	}
	return nil
}

// fit scales img to the configured size, or trims odd dimensions to even
// ones since yuv420p output needs both to be even.
func (s *Sink) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := s.width, s.height
	if w <= 0 || h <= 0 {
		w, h = b.Dx(), b.Dy()
	}
	w, h = w&^1, h&^1
	if w == b.Dx() && h == b.Dy() || w == 0 || h == 0 {
		return img
	}
	return s.renderer.ResizeImage(img, w, h)
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
