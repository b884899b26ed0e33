package index

import (
	"errors"
	"fmt"
	"os"
)

// rebuildLock is held while an on-disk index is rebuilt so that two cmdf
// processes sharing --index-path do not interleave their writes.
type rebuildLock struct {
	f *os.File
}

// lockRebuild locks the file at path, creating it if needed. It returns
// ErrIndexLocked when another process is rebuilding.
func lockRebuild(path string) (*rebuildLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open index lock: %w", err)
	}

	ok, err := tryLock(f)
	if err != nil || !ok {
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to lock index: %w", err)
		}
		return nil, ErrIndexLocked
	}
	return &rebuildLock{f: f}, nil
}

func (l *rebuildLock) release() error {
	if l == nil || l.f == nil {
		return nil
	}
	return errors.Join(unlock(l.f), l.f.Close())
}
