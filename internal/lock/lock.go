// Package lock provides advisory file locking for the vault.
//
// Every command invocation is an independent short-lived process, so
// mutual exclusion between invocations racing on the same catalog or
// ledger file has to go through the filesystem. Locks are held for the
// duration of a single read-modify-write or append and released on
// every exit path.
package lock

import (
	"fmt"
	"os"
)

// fileLocker abstracts the platform locking primitive.
type fileLocker interface {
	lock(f *os.File) error
	unlock(f *os.File) error
}

// FileLock is an acquired advisory lock backed by a sidecar lock file.
type FileLock struct {
	f      *os.File
	locker fileLocker
}

// Acquire takes an exclusive advisory lock on path's sidecar lock file,
// blocking until the lock is available. The lock file is created lazily
// and never removed; only the flock state matters.
func Acquire(path string) (*FileLock, error) {
	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	locker := newPlatformLocker()
	if err := locker.lock(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire lock on %s: %w", path, err)
	}

	return &FileLock{f: f, locker: locker}, nil
}

// Release unlocks and closes the lock file. Safe to call once per
// acquired lock; the kernel also drops the lock if the process dies.
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := l.locker.unlock(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
