//go:build !unix

package lock

import "os"

// noopLocker is the fallback for platforms without flock. Concurrent
// invocations on such platforms fall back to last-writer-wins; the
// atomic-rename discipline in the store still prevents torn files.
type noopLocker struct{}

func (noopLocker) lock(*os.File) error   { return nil }
func (noopLocker) unlock(*os.File) error { return nil }

func newPlatformLocker() fileLocker {
	return noopLocker{}
}
