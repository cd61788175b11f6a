package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress indicates another export holds the run lock.
var ErrRunInProgress = errors.New("another export run is already in progress")

// RunLock serializes export runs against one database. Analyzers read
// concurrently without it; only the write path takes the lock.
type RunLock struct {
	lock *flock.Flock
}

// NewRunLock derives the lock path from the database path.
func NewRunLock(databasePath string) (*RunLock, error) {
	dir := filepath.Dir(databasePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	return &RunLock{lock: flock.New(databasePath + ".lock")}, nil
}

// Acquire takes the lock without blocking. It fails with
// ErrRunInProgress when another process holds it.
func (l *RunLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrRunInProgress
	}
	return nil
}

// Release drops the lock.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}
