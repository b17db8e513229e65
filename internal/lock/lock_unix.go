//go:build unix

package lock

import (
	"os"
	"syscall"
)

// unixLocker implements fileLocker with flock(2). Locks are advisory,
// process-scoped, and released automatically on close or process exit.
type unixLocker struct{}

func (unixLocker) lock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

func (unixLocker) unlock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}

func newPlatformLocker() fileLocker {
	return unixLocker{}
}
