// Package lockfile keeps a second process out of a data directory while one
// holds it.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another process already owns the lock.
var ErrHeld = errors.New("another process is using the library data directory")

// Acquire takes the lock at path without blocking, creating its directory
// first. Release the returned lock with Unlock.
func Acquire(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return lock, nil
}
