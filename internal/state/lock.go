package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// locksDirName is the subdirectory for lock files. Keeping them out of the
// state dir itself leaves its listing to the state files.
const locksDirName = ".locks"

const lockFileName = "state.lock"

// LockTimeout is the timeout for acquiring the state lock.
const LockTimeout = 2 * time.Second

var (
	ErrLockTimeout  = errors.New("lock timeout")
	errLockFileOpen = errors.New("failed to open lock file")
)

// fileLock is an exclusive flock held on a lock file.
type fileLock struct {
	path string
	file *os.File
}

// release removes the lock file while still holding the lock, then unlocks.
func (l *fileLock) release() {
	if l.file == nil {
		return
	}

	_ = os.Remove(l.path)
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
	l.file = nil
}

// withLock runs handler while holding the exclusive lock of dir.
func withLock(dir string, timeout time.Duration, handler func() error) error {
	lock, err := acquireLock(dir, timeout)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer lock.release()

	return handler()
}

// acquireLock takes an exclusive flock on dir/.locks/state.lock.
//
// A holder removes the lock file on release, so after the flock is granted
// the inode at the path is compared with the one that was opened. If they
// differ the file was replaced while waiting and the attempt is retried.
func acquireLock(dir string, timeout time.Duration) (*fileLock, error) {
	locksDir := filepath.Join(dir, locksDirName)
	lockPath := filepath.Join(locksDir, lockFileName)
	deadline := time.Now().Add(timeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, dir)
		}

		err := os.MkdirAll(locksDir, dirPerms)
		if err != nil {
			return nil, fmt.Errorf("creating locks dir: %w", err)
		}

		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errLockFileOpen, err)
		}

		var opened unix.Stat_t

		err = unix.Fstat(int(file.Fd()), &opened)
		if err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("fstat lock file: %w", err)
		}

		fd := int(file.Fd())
		done := make(chan error, 1)

		go func() {
			done <- unix.Flock(fd, unix.LOCK_EX)
		}()

		select {
		case err := <-done:
			if err != nil {
				_ = file.Close()

				return nil, fmt.Errorf("flock: %w", err)
			}

			var current unix.Stat_t

			statErr := unix.Stat(lockPath, &current)
			if statErr != nil || current.Ino != opened.Ino {
				_ = unix.Flock(fd, unix.LOCK_UN)
				_ = file.Close()

				continue
			}

			return &fileLock{path: lockPath, file: file}, nil
		case <-time.After(remaining):
			// Closing the descriptor drops the lock if the goroutine gets it late.
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, dir)
		}
	}
}
