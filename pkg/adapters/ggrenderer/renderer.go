// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/framereel/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CheckFont reports whether path holds a font gg can load.
func CheckFont(path string) error {
	if _, err := gg.LoadFontFace(path, 12); err != nil {
		return fmt.Errorf("load font %s: %w", path, err)
	}
	return nil
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

// DecodeImage decodes image data into an image.Image.
func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	reader := bytes.NewReader(data)

	switch format {
	case ports.FormatJPEG:
		return jpeg.Decode(reader)
	case ports.FormatPNG:
		return png.Decode(reader)
	default:
		img, _, err := image.Decode(reader)
		return img, err
	}
}

// EncodeImage encodes an image to the specified format.
// quality only applies to JPEG.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc      *gg.Context
	fontErr error
}

// FontErr returns the first font loading error seen by DrawText.
func (c *Canvas) FontErr() error {
	return c.fontErr
}

// DrawRoundedRect draws a filled rounded rectangle.
func (c *Canvas) DrawRoundedRect(x, y, w, h, radius float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(x, y, w, h, radius)
	c.dc.Fill()
}

// DrawArc strokes a circular arc with round caps.
func (c *Canvas) DrawArc(cx, cy, r, start, end float64, col color.Color, width float64) {
	c.dc.Push()
	defer c.dc.Pop()

	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.NewSubPath()
	c.dc.DrawArc(cx, cy, r, start, end)
	c.dc.Stroke()
}

// DrawCircle draws a filled circle.
func (c *Canvas) DrawCircle(cx, cy, r float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Fill()
}

// DrawText draws text vertically centered on y.
func (c *Canvas) DrawText(text string, x, y float64, style ports.TextStyle) {
	c.dc.SetColor(style.Color)

	// A failed load keeps the current face and is reported by FontErr.
	if style.FontPath != "" {
		if err := c.dc.LoadFontFace(style.FontPath, style.FontSize); err != nil && c.fontErr == nil {
			c.fontErr = fmt.Errorf("load font %s: %w", style.FontPath, err)
		}
	}

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	c.dc.DrawStringAnchored(text, x, y, ax, 0.5)
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
