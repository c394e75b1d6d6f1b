// Package frames defines captured frames and their on-disk naming.
package frames

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/user/framereel/pkg/ports"
)

const (
	// Prefix starts every frame file name.
	Prefix = "frame_"
	// Ext is the frame file extension.
	Ext = ".png"
	// Pattern is the printf-style encoder input pattern matching Name.
	Pattern = Prefix + "%04d" + Ext
	// MaxPadded is the largest index that still fits the four-digit padding.
	MaxPadded = 9999
)

// Frame is one rasterized snapshot of the surface.
type Frame struct {
	Index int
	Image image.Image
}

// Name returns the file name for the frame at index.
// Indexes above MaxPadded widen beyond four digits.
func Name(index int) string {
	return fmt.Sprintf(Pattern, index)
}

// ParseIndex recovers the index from a frame file name. Only names that Name
// produces are accepted, so "frame_00005.png" and "frame_+001.png" are not
// frames.
func ParseIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, Prefix) || !strings.HasSuffix(name, Ext) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, Prefix), Ext)
	if len(digits) < 4 {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || Name(n) != name {
		return 0, false
	}
	return n, true
}

// List returns the frame file names in dir, ordered by index.
func List(fs ports.FileSystem, dir string) ([]string, error) {
	names, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}

	type entry struct {
		name  string
		index int
	}
	var found []entry
	for _, name := range names {
		if idx, ok := ParseIndex(name); ok {
			found = append(found, entry{name: name, index: idx})
		}
	}

	// ReadDir sorts lexically, which misorders widened indexes.
	sort.Slice(found, func(i, j int) bool { return found[i].index < found[j].index })

	result := make([]string, len(found))
	for i, e := range found {
		result[i] = e.name
	}
	return result, nil
}

// Next returns the index following the highest frame present in dir,
// or 0 when the directory holds no frames.
func Next(fs ports.FileSystem, dir string) (int, error) {
	names, err := List(fs, dir)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}
	last, _ := ParseIndex(names[len(names)-1])
	return last + 1, nil
}
