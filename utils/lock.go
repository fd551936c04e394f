package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the backup target while a run is active
const LockFileName = ".thesisbackup.lock"

// ErrTargetLocked is returned when another run holds the target lock
var ErrTargetLocked = errors.New("target directory is in use by another backup")

// TargetLock is an exclusive, non-blocking lock on a backup target
type TargetLock struct {
	flock *flock.Flock
	path  string
}

// LockTarget creates target if needed and takes its lock. It fails immediately with
// ErrTargetLocked when the lock is held.
func LockTarget(target string) (*TargetLock, error) {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	path := filepath.Join(target, LockFileName)
	fl := flock.New(path)
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", path, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrTargetLocked, target)
	}
	return &TargetLock{flock: fl, path: path}, nil
}

// Path returns the lock file location
func (l *TargetLock) Path() string {
	return l.path
}

// Unlock releases the lock. The lock file itself is left in place.
func (l *TargetLock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}
