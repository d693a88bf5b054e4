package output

import (
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
)

// withLock runs fn while holding an exclusive lock on path + ".lock". The
// lock file is left behind so later writers contend on the same inode.
func withLock(path string, fn func() error) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// WriteFile creates path and hands it to write under an exclusive file lock.
func WriteFile(path string, write func(io.Writer) error) error {
	return withLock(path, func() error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := write(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		return nil
	})
}
