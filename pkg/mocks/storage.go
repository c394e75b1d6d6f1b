package mocks

import (
	"context"
	"sync"

	"github.com/user/framereel/pkg/ports"
)

// StorageAccess is a mock implementation of ports.StorageAccess.
type StorageAccess struct {
	mu sync.Mutex

	RequestFunc func(ctx context.Context, dir string) error

	// Requested records every directory passed to Request.
	Requested []string
}

func (m *StorageAccess) Request(ctx context.Context, dir string) error {
	m.mu.Lock()
	m.Requested = append(m.Requested, dir)
	m.mu.Unlock()
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, dir)
	}
	return nil
}

var _ ports.StorageAccess = (*StorageAccess)(nil)
