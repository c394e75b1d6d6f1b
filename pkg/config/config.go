// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/framereel/pkg/adapters/htmlsurface"
	"github.com/user/framereel/pkg/adapters/screensurface"
	"github.com/user/framereel/pkg/adapters/widgetsurface"
	"github.com/user/framereel/pkg/dirs"
	"github.com/user/framereel/pkg/orchestrator"
	"github.com/user/framereel/pkg/pipeline"
)

// Surface kinds.
const (
	SurfaceWidget = "widget"
	SurfaceHTML   = "html"
	SurfaceScreen = "screen"
)

// Config represents the full configuration for framereel.
type Config struct {
	// Directories
	Dir         string `yaml:"dir"`
	FallbackDir string `yaml:"fallback_dir"`
	Clean       bool   `yaml:"clean"`

	// Surface
	Surface      string      `yaml:"surface"`
	Width        int         `yaml:"width"`
	Height       int         `yaml:"height"`
	Caption      string      `yaml:"caption"`
	FontPath     string      `yaml:"font_path"`
	AnimationFPS float64     `yaml:"animation_fps"`
	PeriodMs     int         `yaml:"period_ms"`
	Theme        ThemeConfig `yaml:"theme"`
	HTMLFile     string      `yaml:"html_file"`
	ChromePath   string      `yaml:"chrome_path"`
	Headless     bool        `yaml:"headless"`
	Region       string      `yaml:"region"`

	// Capture
	IntervalMs    int `yaml:"interval_ms"`
	SettleDelayMs int `yaml:"settle_delay_ms"`
	DurationMs    int `yaml:"duration_ms"`
	MaxFrames     int `yaml:"max_frames"`
	FrameWidth    int `yaml:"frame_width"`
	FrameHeight   int `yaml:"frame_height"`

	// Encoding
	FFmpegPath       string `yaml:"ffmpeg_path"`
	FrameRate        int    `yaml:"frame_rate"`
	PreferredEncoder string `yaml:"preferred_encoder"`
	FallbackEncoder  string `yaml:"fallback_encoder"`
	PixFmt           string `yaml:"pix_fmt"`

	// Output
	Summary  string `yaml:"summary"`
	LogLevel string `yaml:"log_level"`
}

// ThemeConfig represents widget colors as hex strings.
type ThemeConfig struct {
	BackgroundColor string `yaml:"background_color"`
	CardColor       string `yaml:"card_color"`
	AccentColor     string `yaml:"accent_color"`
	TextColor       string `yaml:"text_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Directories
		Dir:         dirs.DefaultBase(),
		FallbackDir: dirs.FallbackBase(),

		// Surface
		Surface:      SurfaceWidget,
		Width:        320,
		Height:       240,
		Caption:      "framereel",
		AnimationFPS: 60,
		PeriodMs:     2000,
		Theme: ThemeConfig{
			BackgroundColor: "#1a1a2e",
			CardColor:       "#333355",
			AccentColor:     "#4ade80",
			TextColor:       "#ffffff",
		},
		Headless: true,

		// Capture
		IntervalMs:    33,
		SettleDelayMs: 20,
		DurationMs:    5000,

		// Encoding
		FrameRate:        pipeline.DefaultFrameRate,
		PreferredEncoder: pipeline.EncoderH264,
		FallbackEncoder:  pipeline.EncoderMPEG4,
		PixFmt:           pipeline.DefaultPixFmt,

		// Output
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate clamps numeric values into range and rejects unknown settings.
func (c *Config) Validate() error {
	switch c.Surface {
	case "":
		c.Surface = SurfaceWidget
	case SurfaceWidget, SurfaceHTML, SurfaceScreen:
	default:
		return fmt.Errorf("unknown surface %q (want %s, %s or %s)", c.Surface, SurfaceWidget, SurfaceHTML, SurfaceScreen)
	}
	if _, err := screensurface.ParseRegion(c.Region); err != nil {
		return err
	}
	if c.Dir == "" && c.FallbackDir == "" {
		return fmt.Errorf("no output directory configured")
	}

	c.Width = clamp(c.Width, 16, 4096)
	c.Height = clamp(c.Height, 16, 4096)
	c.FrameRate = clamp(c.FrameRate, 1, 120)
	c.IntervalMs = clamp(c.IntervalMs, 1, 60000)
	c.SettleDelayMs = clamp(c.SettleDelayMs, 0, 1000)
	c.PeriodMs = clamp(c.PeriodMs, 100, 60000)
	if c.DurationMs < 0 {
		c.DurationMs = 0
	}
	if c.MaxFrames < 0 {
		c.MaxFrames = 0
	}
	if c.FrameWidth < 0 || c.FrameHeight < 0 {
		c.FrameWidth, c.FrameHeight = 0, 0
	}
	if c.AnimationFPS <= 0 || c.AnimationFPS > 240 {
		c.AnimationFPS = 60
	}
	if c.PixFmt == "" {
		c.PixFmt = pipeline.DefaultPixFmt
	}
	if c.PreferredEncoder == "" {
		c.PreferredEncoder = pipeline.EncoderH264
	}
	if c.FallbackEncoder == "" {
		c.FallbackEncoder = pipeline.EncoderMPEG4
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseColor parses a #rrggbb or #rgb hex color string to color.Color.
// Malformed input yields opaque black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.Black
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Interval:    time.Duration(c.IntervalMs) * time.Millisecond,
		SettleDelay: time.Duration(c.SettleDelayMs) * time.Millisecond,
		MaxFrames:   c.MaxFrames,
		FrameWidth:  c.FrameWidth,
		FrameHeight: c.FrameHeight,
		Clean:       c.Clean,

		FrameRate:        c.FrameRate,
		PreferredEncoder: c.PreferredEncoder,
		FallbackEncoder:  c.FallbackEncoder,
		PixFmt:           c.PixFmt,
	}
}

// ToWidgetOptions converts Config to widgetsurface.Options.
func (c Config) ToWidgetOptions() widgetsurface.Options {
	opts := widgetsurface.DefaultOptions()
	opts.Width = c.Width
	opts.Height = c.Height
	opts.Caption = c.Caption
	opts.FontPath = c.FontPath
	opts.FPS = c.AnimationFPS
	opts.Period = time.Duration(c.PeriodMs) * time.Millisecond
	if c.Theme.BackgroundColor != "" {
		opts.Background = ParseColor(c.Theme.BackgroundColor)
	}
	if c.Theme.CardColor != "" {
		opts.Card = ParseColor(c.Theme.CardColor)
	}
	if c.Theme.AccentColor != "" {
		opts.Accent = ParseColor(c.Theme.AccentColor)
	}
	if c.Theme.TextColor != "" {
		opts.Text = ParseColor(c.Theme.TextColor)
	}
	return opts
}

// ToHTMLOptions converts Config to htmlsurface.Options, reading HTMLFile
// when set.
func (c Config) ToHTMLOptions() (htmlsurface.Options, error) {
	opts := htmlsurface.Options{
		Width:      c.Width,
		Height:     c.Height,
		Caption:    c.Caption,
		ChromePath: c.ChromePath,
		Headless:   c.Headless,
	}
	if c.HTMLFile != "" {
		data, err := os.ReadFile(c.HTMLFile)
		if err != nil {
			return opts, fmt.Errorf("read html file: %w", err)
		}
		opts.HTML = string(data)
	}
	return opts, nil
}

// ScreenRegion returns the desktop rectangle for the screen surface. The
// empty rectangle means the whole primary screen.
func (c Config) ScreenRegion() (image.Rectangle, error) {
	return screensurface.ParseRegion(c.Region)
}

// Duration returns the recording duration.
func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationMs) * time.Millisecond
}
