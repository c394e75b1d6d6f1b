// Package htmlsurface renders an HTML widget in headless Chrome and
// rasterizes it with screenshots.
package htmlsurface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/user/framereel/pkg/ports"
)

// ErrNotLaunched is returned when the surface is used before Launch.
var ErrNotLaunched = errors.New("htmlsurface: browser not launched")

// pendingAnimationsJS reports whether any running animation has not yet
// produced its first frame.
const pendingAnimationsJS = `document.getAnimations().some(a => a.pending)`

// Options configures the HTML surface.
type Options struct {
	Width      int
	Height     int
	HTML       string // Page content; DefaultHTML is used when empty
	Caption    string // Caption for DefaultHTML
	ChromePath string
	Headless   bool
}

// Surface implements ports.Surface on top of a chromedp tab.
type Surface struct {
	opts Options

	mu          sync.Mutex
	allocCancel context.CancelFunc
	cancel      context.CancelFunc
	ctx         context.Context
	pagePath    string
}

// New creates an unlaunched surface.
func New(opts Options) *Surface {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 320, 240
	}
	if opts.HTML == "" {
		opts.HTML = DefaultHTML(opts.Width, opts.Height, opts.Caption)
	}
	return &Surface{opts: opts}
}

// Launch starts Chrome and loads the widget page.
func (s *Surface) Launch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chromePath := ResolveChromePath(s.opts.ChromePath)
	if chromePath == "" {
		return fmt.Errorf("chrome not found: install Chrome/Chromium, set CHROME_PATH, or use --chrome-path")
	}

	page, err := os.CreateTemp("", "framereel_widget_*.html")
	if err != nil {
		return fmt.Errorf("create page file: %w", err)
	}
	if _, err := page.WriteString(s.opts.HTML); err != nil {
		page.Close()
		os.Remove(page.Name())
		return fmt.Errorf("write page file: %w", err)
	}
	page.Close()
	s.pagePath = page.Name()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(chromePath),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.WindowSize(s.opts.Width, s.opts.Height),
	}
	if s.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(int64(s.opts.Width), int64(s.opts.Height), 1, false),
		chromedp.Navigate("file://"+s.pagePath),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	); err != nil {
		cancel()
		allocCancel()
		os.Remove(s.pagePath)
		return fmt.Errorf("load widget page: %w", err)
	}

	s.ctx, s.cancel, s.allocCancel = tabCtx, cancel, allocCancel
	return nil
}

// Size returns the viewport dimensions.
func (s *Surface) Size() (int, int) {
	return s.opts.Width, s.opts.Height
}

// Repainting asks the page whether an animation frame is still pending.
// Any failure to ask counts as not repainting.
func (s *Surface) Repainting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(s.ctx, 200*time.Millisecond)
	defer cancel()

	var pending bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(pendingAnimationsJS, &pending)); err != nil {
		return false
	}
	return pending
}

// Snapshot captures a screenshot of the viewport.
func (s *Surface) Snapshot(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil, ErrNotLaunched
	}

	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}

// Close shuts the browser down and removes the page file.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.allocCancel()
		s.cancel, s.allocCancel, s.ctx = nil, nil, nil
	}
	if s.pagePath != "" {
		os.Remove(s.pagePath)
		s.pagePath = ""
	}
	return nil
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
