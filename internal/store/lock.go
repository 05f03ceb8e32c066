package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
)

// Lock is a cross-process exclusive lock on a project
type Lock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewLock creates a lock backed by the file at path
func NewLock(path string) *Lock {
	return &Lock{path: path, flock: flock.New(path)}
}

// AcquireLock takes the lock at path without waiting. It returns
// errors.ErrLocked when another process holds it.
func AcquireLock(path string) (*Lock, error) {
	l := NewLock(path)
	if err := l.TryLock(); err != nil {
		return nil, err
	}
	return l, nil
}

// TryLock attempts to take the lock without blocking
func (l *Lock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return errors.NewPathError(l.path, "lock", errors.ErrLocked)
	}

	l.locked = true
	return nil
}

// Unlock releases the lock. Calling it on an unlocked Lock is a no-op.
func (l *Lock) Unlock() error {
	if !l.locked {
		return nil
	}

	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}
