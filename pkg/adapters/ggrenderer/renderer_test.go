package ggrenderer

import (
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/framereel/pkg/ports"
)

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 80, color.White)
	if canvas == nil {
		t.Fatal("expected canvas to be created")
	}

	bounds := canvas.ToImage().Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Errorf("expected 100x80, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecodePNG(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	img.Set(5, 5, color.RGBA{R: 255, A: 255})

	data, err := r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if string(data[1:4]) != "PNG" {
		t.Errorf("expected PNG signature, got %q", data[:4])
	}

	decoded, err := r.DecodeImage(data, ports.FormatPNG)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 20 {
		t.Errorf("expected 30x20, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	red, _, _, _ := decoded.At(5, 5).RGBA()
	if red>>8 != 255 {
		t.Errorf("expected red pixel to survive round trip, got %d", red>>8)
	}
}

func TestRenderer_EncodeJPEG(t *testing.T) {
	r := New()

	data, err := r.EncodeImage(image.NewRGBA(image.Rect(0, 0, 16, 16)), ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("expected JPEG SOI marker")
	}
}

func TestRenderer_EncodeUnsupportedFormat(t *testing.T) {
	r := New()

	if _, err := r.EncodeImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	resized := r.ResizeImage(image.NewRGBA(image.Rect(0, 0, 100, 100)), 50, 25)

	bounds := resized.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 25 {
		t.Errorf("expected 50x25, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCanvas_DrawRoundedRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawRoundedRect(10, 10, 60, 60, 8, color.RGBA{B: 255, A: 255})

	_, _, blue, _ := canvas.ToImage().At(40, 40).RGBA()
	red, _, _, _ := canvas.ToImage().At(40, 40).RGBA()
	if blue>>8 != 255 || red != 0 {
		t.Error("expected blue pixel inside rectangle")
	}
}

func TestCanvas_DrawArc(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawArc(50, 50, 30, 0, math.Pi, color.Black, 6)

	img := canvas.ToImage()
	// Angle pi/2 sits straight below the center.
	r1, _, _, _ := img.At(50, 80).RGBA()
	if r1 == 0xffff {
		t.Error("expected arc to cover the bottom of the circle")
	}
	// The upper half is untouched.
	r2, _, _, _ := img.At(50, 20).RGBA()
	if r2 != 0xffff {
		t.Error("expected upper half to stay white")
	}
}

func TestCanvas_DrawCircle(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(40, 40, color.White)

	canvas.DrawCircle(20, 20, 10, color.RGBA{G: 255, A: 255})

	red, green, _, _ := canvas.ToImage().At(20, 20).RGBA()
	if red != 0 || green>>8 != 255 {
		t.Error("expected green pixel at circle center")
	}
}

func TestCanvas_DrawText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 50, color.White)

	canvas.DrawText("frame 0001", 100, 25, ports.TextStyle{
		FontSize: 14,
		FontPath: "/nonexistent/font.ttf",
		Color:    color.Black,
		Align:    ports.AlignCenter,
	})

	if canvas.ToImage() == nil {
		t.Error("expected image to be created")
	}
	if err := canvas.(*Canvas).FontErr(); err == nil || !strings.Contains(err.Error(), "/nonexistent/font.ttf") {
		t.Errorf("expected font error naming the path, got %v", err)
	}
}

func TestCheckFont(t *testing.T) {
	if err := CheckFont(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("expected error for missing font")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.ttf")
	if err := os.WriteFile(bogus, []byte("not a font"), 0644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	if err := CheckFont(bogus); err == nil {
		t.Error("expected error for unparsable font")
	}
}
