package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned when another daemon holds the instance lock.
var ErrAlreadyRunning = errors.New("another tiletree daemon is already running")

// AcquireLock takes the exclusive instance lock at path. Callers release it
// with ReleaseLock.
func AcquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return fl, nil
}

// ReleaseLock unlocks fl and removes the lock file.
func ReleaseLock(fl *flock.Flock) {
	if fl == nil {
		return
	}
	_ = fl.Unlock()
	_ = os.Remove(fl.Path())
}
