package ports

import "context"

// StorageAccess requests permission to write to a storage location.
type StorageAccess interface {
	// Request asks for write access to dir. It returns nil when access is granted.
	Request(ctx context.Context, dir string) error
}
