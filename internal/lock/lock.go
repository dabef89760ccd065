// Package lock implements the single-instance guard that keeps two
// panemonitor processes from racing on one tmux session's panes.
package lock

import (
	"fmt"
	"os"
	"syscall"

	"github.com/paneguard/tmux-monitor/internal/errs"
)

// SessionLock holds an exclusive flock on a path unique to one monitored
// tmux session, enforcing the single-owner assumption the monitoring
// service's pane collection depends on.
type SessionLock struct {
	path string
	file *os.File
}

// NewSessionLock acquires an exclusive non-blocking lock on path. If the
// lock is already held by another panemonitor instance watching the same
// session, it returns errs.IllegalState rather than a bare wrapped syscall
// error, so callers can branch on failure kind.
func NewSessionLock(path string) (*SessionLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, &errs.UnexpectedError{Operation: "opening session lock file", Details: path, Cause: err}
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, &errs.IllegalState{
			Current:  fmt.Sprintf("locked (%s)", path),
			Expected: "unlocked: no other panemonitor instance watching this session",
		}
	}

	return &SessionLock{path: path, file: f}, nil
}

// Path returns the lock file path this lock was acquired on, for
// diagnostics.
func (l *SessionLock) Path() string {
	return l.path
}

// Release releases the file lock and closes the lock file. Safe to call on
// a zero-value SessionLock (no-op).
func (l *SessionLock) Release() error {
	if l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		return &errs.UnexpectedError{Operation: "releasing session lock", Details: l.path, Cause: err}
	}
	return l.file.Close()
}
