package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image processing operations.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes image data into an image.Image.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage resizes an image to the specified dimensions.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas provides drawing operations for painting a widget.
type Canvas interface {
	// DrawRoundedRect draws a filled rounded rectangle.
	DrawRoundedRect(x, y, w, h, radius float64, c color.Color)

	// DrawArc strokes a circular arc centered at (cx, cy).
	// Angles are in radians, measured clockwise from the positive x axis.
	DrawArc(cx, cy, r, start, end float64, c color.Color, width float64)

	// DrawCircle draws a filled circle.
	DrawCircle(cx, cy, r float64, c color.Color)

	// DrawText draws text anchored at the specified position.
	DrawText(text string, x, y float64, style TextStyle)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)
