package lock

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/whatdoineed2do/gpod-utils/internal/errs"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("unexpected error acquiring free lock: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("unexpected error releasing lock: %v", err)
	}
}

func TestAcquireContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")

	first, err := Acquire(path)
	if err != nil {
		t.Fatalf("unexpected error acquiring first lock: %v", err)
	}
	defer first.Release()

	_, err = Acquire(path)
	if !errors.Is(err, errs.ErrLockContention) {
		t.Errorf("expected ErrLockContention, got %v", err)
	}
}

func TestAcquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")

	first, err := Acquire(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("unexpected error releasing: %v", err)
	}

	second, err := Acquire(path)
	if err != nil {
		t.Fatalf("expected re-acquire to succeed after release, got %v", err)
	}
	second.Release()
}
