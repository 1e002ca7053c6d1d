package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireLock_TimesOut_WhenHeld(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	held, err := acquireLock(dir, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	defer held.release()

	start := time.Now()

	_, err = acquireLock(dir, 100*time.Millisecond)
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestAcquireLock_Succeeds_AfterRelease(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first, err := acquireLock(dir, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		first.release()
	}()

	second, err := acquireLock(dir, 2*time.Second)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}

	second.release()
}

func TestRelease_RemovesLockFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lockPath := filepath.Join(dir, locksDirName, lockFileName)

	lock, err := acquireLock(dir, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, statErr := os.Stat(lockPath); statErr != nil {
		t.Fatalf("lock file missing while held: %v", statErr)
	}

	lock.release()
	lock.release() // second release is a no-op

	if _, statErr := os.Stat(lockPath); !os.IsNotExist(statErr) {
		t.Errorf("lock file should be removed, stat err: %v", statErr)
	}
}

func TestWithLock_ReturnsHandlerError(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")

	err := withLock(t.TempDir(), time.Second, func() error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
