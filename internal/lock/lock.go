// Package lock keeps a single watcher per target across processes.
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/Ning0612/fmatch/internal/domain"
)

// LockInfo contains metadata about the lock holder
type LockInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartTime time.Time `json:"start_time"`
	Target    string    `json:"target"`
	Session   string    `json:"session,omitempty"`
}

// FileLock is an exclusive advisory lock on one file.
// The holder's LockInfo is written into the lock file while held.
type FileLock struct {
	flock *flock.Flock
	path  string
	info  *LockInfo
}

// NewFileLock creates a lock on path, creating its directory
func NewFileLock(path string) (*FileLock, error) {
	if path == "" {
		return nil, fmt.Errorf("lock path cannot be empty")
	}

	// Ensure lock directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}, nil
}

// Path returns the lock file path
func (l *FileLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking.
// Returns a *LockError wrapping domain.ErrWatcherRunning when another holder has it.
func (l *FileLock) Acquire(target, session string) error {
	if l.info != nil {
		return nil // Already held by this instance
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !acquired {
		holder, _ := l.Holder()
		return &LockError{Holder: holder, Target: target}
	}

	hostname, _ := os.Hostname()
	info := &LockInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartTime: time.Now(),
		Target:    target,
		Session:   session,
	}

	// Holder metadata is informational, the flock is what excludes
	data, err := json.MarshalIndent(info, "", "  ")
	if err == nil {
		err = os.WriteFile(l.path, data, 0644)
	}
	if err != nil {
		l.flock.Unlock()
		return fmt.Errorf("failed to write lock info: %w", err)
	}

	l.info = info
	return nil
}

// Release releases the lock. Releasing a lock that is not held is a no-op.
func (l *FileLock) Release() error {
	if l.info == nil {
		return nil // Not holding lock
	}

	// Truncate before unlocking so a stale holder is never reported
	if err := os.Truncate(l.path, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear lock file: %w", err)
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}

	l.info = nil
	return nil
}

// IsHeld reports whether this instance holds the lock
func (l *FileLock) IsHeld() bool {
	return l.info != nil
}

// Holder reads the metadata written by the current holder.
// Returns nil without error when the lock file is empty or missing.
func (l *FileLock) Holder() (*LockInfo, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid lock file format: %w", err)
	}

	return &info, nil
}

// LockError represents an error when lock cannot be acquired
type LockError struct {
	Holder *LockInfo
	Target string
}

func (e *LockError) Error() string {
	if e.Holder != nil {
		return fmt.Sprintf("%s: %s (held by PID %d on %s since %s, session: %s)",
			domain.ErrWatcherRunning,
			e.Target,
			e.Holder.PID,
			e.Holder.Hostname,
			e.Holder.StartTime.Format(time.RFC3339),
			e.Holder.Session,
		)
	}
	return fmt.Sprintf("%s: %s", domain.ErrWatcherRunning, e.Target)
}

// Unwrap makes errors.Is(err, domain.ErrWatcherRunning) hold
func (e *LockError) Unwrap() error {
	return domain.ErrWatcherRunning
}
