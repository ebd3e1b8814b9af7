package acquire

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// StaleLockThreshold is the age after which a leftover lock is ignored.
	StaleLockThreshold = 10 * time.Minute
)

// ErrLockExists is returned when another acquisition holds the target.
var ErrLockExists = errors.New("another acquisition in progress")

// Lock marks a target directory as being written.
type Lock struct {
	path string
	file *os.File
}

// LockPath returns the lock file guarding targetDir. It sits next to the
// target, not inside it, so it never mixes with extracted files.
func LockPath(targetDir string) string {
	return filepath.Clean(targetDir) + ".lock"
}

// AcquireLock takes the lock for targetDir using O_CREATE|O_EXCL. A lock
// older than StaleLockThreshold is removed and taken over once.
func AcquireLock(targetDir string, now time.Time) (*Lock, error) {
	lockPath := LockPath(targetDir)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if !isLockStale(lockPath, now) {
			return nil, ErrLockExists
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, ErrLockExists
		}
	}

	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), now.UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release releases the lock.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}

	return nil
}

func isLockStale(lockPath string, now time.Time) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false
	}
	return now.Sub(info.ModTime()) > StaleLockThreshold
}
