package mocks

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"github.com/user/framereel/pkg/ports"
)

// Surface is a mock implementation of ports.Surface.
type Surface struct {
	Width  int
	Height int

	RepaintingFunc func() bool
	SnapshotFunc   func(ctx context.Context) (image.Image, error)

	mu        sync.Mutex
	snapshots int
	repaints  atomic.Int32
}

func (m *Surface) Size() (int, int) {
	return m.Width, m.Height
}

func (m *Surface) Repainting() bool {
	m.repaints.Add(1)
	if m.RepaintingFunc != nil {
		return m.RepaintingFunc()
	}
	return false
}

func (m *Surface) Snapshot(ctx context.Context) (image.Image, error) {
	m.mu.Lock()
	m.snapshots++
	m.mu.Unlock()
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx)
	}
	w, h := m.Width, m.Height
	if w == 0 || h == 0 {
		w, h = 8, 8
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// Snapshots returns the number of Snapshot calls.
func (m *Surface) Snapshots() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots
}

// RepaintChecks returns the number of Repainting calls.
func (m *Surface) RepaintChecks() int {
	return int(m.repaints.Load())
}

var _ ports.Surface = (*Surface)(nil)
