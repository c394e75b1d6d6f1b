package mocks

import (
	"image"
	"sync"

	"github.com/user/framereel/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	mu sync.Mutex

	SaveFrameFunc func(index int, img image.Image) error

	// Saved lists the indexes passed to SaveFrame that returned nil, in call order.
	Saved []int
}

func (m *FrameSink) SaveFrame(index int, img image.Image) error {
	if m.SaveFrameFunc != nil {
		if err := m.SaveFrameFunc(index, img); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, index)
	return nil
}

// SavedIndexes returns a copy of the recorded indexes.
func (m *FrameSink) SavedIndexes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.Saved))
	copy(out, m.Saved)
	return out
}

var _ ports.FrameSink = (*FrameSink)(nil)
