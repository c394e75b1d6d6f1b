// Package storageaccess checks that the process may write to a storage location.
//
// Desktop platforms have no runtime permission prompt, so a request succeeds
// when the nearest existing ancestor of the directory is writable.
package storageaccess

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/framereel/pkg/ports"
)

// ErrDenied is returned when write access is not available.
var ErrDenied = errors.New("storageaccess: write access denied")

// Checker implements ports.StorageAccess.
type Checker struct{}

// New creates a new Checker.
func New() *Checker {
	return &Checker{}
}

// Request returns nil when dir, or the closest ancestor that exists, is writable.
func (c *Checker) Request(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := nearestExisting(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDenied, dir, err)
	}
	if err := checkWritable(existing); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDenied, existing, err)
	}
	return nil
}

func nearestExisting(dir string) (string, error) {
	path, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		info, err := os.Stat(path)
		if err == nil {
			if !info.IsDir() {
				return "", fmt.Errorf("%s is not a directory", path)
			}
			return path, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", err
		}
		path = parent
	}
}

// Ensure Checker implements ports.StorageAccess
var _ ports.StorageAccess = (*Checker)(nil)
