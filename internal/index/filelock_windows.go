//go:build windows

package index

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// A one byte region at offset 0 is enough to serialise rebuilds.
const lockRegion uint32 = 1

// tryLock takes an exclusive LockFileEx lock on f without waiting. It
// returns false with a nil error when another process holds the lock.
func tryLock(f *os.File) (bool, error) {
	var ol windows.Overlapped
	err := windows.LockFileEx(windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, lockRegion, 0, &ol)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, windows.ERROR_LOCK_VIOLATION), errors.Is(err, windows.ERROR_SHARING_VIOLATION):
		return false, nil
	default:
		return false, err
	}
}

func unlock(f *os.File) error {
	var ol windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockRegion, 0, &ol)
}
