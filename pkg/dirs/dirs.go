// Package dirs resolves the base directory for frames and videos and makes
// sure its layout exists.
package dirs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
)

// AppName is the directory name used under the default base locations.
const AppName = "framereel"

const (
	framesDir = "frames"
	videosDir = "videos"
)

// ErrNoDirectory is returned when neither candidate base can be used.
var ErrNoDirectory = errors.New("dirs: no usable output directory")

// Layout is a resolved output directory tree.
type Layout struct {
	Base   string
	Frames string
	Videos string
}

// NewLayout returns the layout rooted at base.
func NewLayout(base string) Layout {
	return Layout{
		Base:   base,
		Frames: filepath.Join(base, framesDir),
		Videos: filepath.Join(base, videosDir),
	}
}

// OutputPath returns the path of the generated video.
func (l Layout) OutputPath() string {
	return filepath.Join(l.Videos, pipeline.OutputName)
}

// FramePattern returns the encoder input pattern for the frames directory.
func (l Layout) FramePattern() string {
	return filepath.Join(l.Frames, frames.Pattern)
}

// DefaultBase returns the per-user data directory for framereel.
// XDG_DATA_HOME wins when set; otherwise the user config directory is used.
// It returns "" when no user directory is known.
func DefaultBase() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName)
}

// FallbackBase returns the framereel directory under the system temp dir.
func FallbackBase() string {
	return filepath.Join(os.TempDir(), AppName)
}

// Resolver picks the base directory and creates its layout.
type Resolver struct {
	access    ports.StorageAccess
	fs        ports.FileSystem
	logger    ports.Logger
	preferred string
	fallback  string
}

// New creates a Resolver. Empty candidates are skipped.
func New(access ports.StorageAccess, fs ports.FileSystem, logger ports.Logger, preferred, fallback string) *Resolver {
	return &Resolver{
		access:    access,
		fs:        fs,
		logger:    logger.WithComponent("dirs"),
		preferred: preferred,
		fallback:  fallback,
	}
}

// Resolve requests access to the preferred base, falls back to the
// alternate base when it cannot be used, and ensures frames/ and videos/
// exist. Running it again over an existing layout changes nothing.
func (r *Resolver) Resolve(ctx context.Context) (Layout, error) {
	var lastErr error

	for i, base := range []string{r.preferred, r.fallback} {
		if base == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Layout{}, err
		}
		if i == 1 && r.preferred != "" {
			r.logger.Info("Using fallback directory %s", base)
		}

		layout, err := r.prepare(ctx, base)
		if err == nil {
			return layout, nil
		}
		lastErr = err
		if i == 0 {
			r.logger.Warn("Preferred directory %s unavailable: %s", base, err)
		}
	}

	if lastErr == nil {
		return Layout{}, ErrNoDirectory
	}
	return Layout{}, fmt.Errorf("%w: %w", ErrNoDirectory, lastErr)
}

func (r *Resolver) prepare(ctx context.Context, base string) (Layout, error) {
	r.logger.Debug("Requesting storage access for %s", base)
	if err := r.access.Request(ctx, base); err != nil {
		r.logger.Warn("Storage access denied for %s: %s", base, err)
		return Layout{}, fmt.Errorf("request access: %w", err)
	}

	layout := NewLayout(base)
	for _, dir := range []string{layout.Frames, layout.Videos} {
		if err := r.fs.MkdirAll(dir); err != nil {
			return Layout{}, fmt.Errorf("create %s: %w", dir, err)
		}
		r.logger.Debug("Created directory %s", dir)
	}
	return layout, nil
}

// ClearFrames removes every frame file from the layout and returns how many
// were removed.
func (r *Resolver) ClearFrames(layout Layout) (int, error) {
	names, err := frames.List(r.fs, layout.Frames)
	if err != nil {
		return 0, err
	}
	for i, name := range names {
		if err := r.fs.Remove(filepath.Join(layout.Frames, name)); err != nil {
			return i, fmt.Errorf("remove %s: %w", name, err)
		}
	}
	if len(names) > 0 {
		r.logger.Info("Removed %d stale frames", len(names))
	}
	return len(names), nil
}
