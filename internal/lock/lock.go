// Package lock implements the ProcessLock: an advisory filesystem lock
// guaranteeing at most one ingest or verifier process runs against a
// device at a time (spec §5, §6). Grounded on the teacher's exec-based
// subprocess idiom of wrapping a single syscall with contextual error
// text; here the syscall is golang.org/x/sys/unix.Flock(LOCK_EX|
// LOCK_NB) rather than exec.Command, since the operation is a single
// non-blocking kernel call with no subprocess involved.
package lock

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/whatdoineed2do/gpod-utils/internal/errs"
)

// DefaultPath is the lockfile location spec §6 names.
const DefaultPath = "/tmp/.gpod-cp.pid"

// ProcessLock holds an acquired advisory exclusive lock for the
// lifetime of a single ingest or verify run.
type ProcessLock struct {
	path string
	file *os.File
}

// Acquire opens (creating if necessary) the lockfile at path and takes
// a non-blocking exclusive flock. On success the file is truncated and
// the current PID written into it. Failure to acquire (another holder
// present) is reported as errs.ErrLockContention.
func Acquire(path string) (*ProcessLock, error) {
	if path == "" {
		path = DefaultPath
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errs.ErrLockContention, path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s held by another process: %v", errs.ErrLockContention, path, err)
	}

	if err := f.Truncate(0); err != nil {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
		return nil, fmt.Errorf("%w: truncate %s: %v", errs.ErrLockContention, path, err)
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
		return nil, fmt.Errorf("%w: write pid to %s: %v", errs.ErrLockContention, path, err)
	}

	return &ProcessLock{path: path, file: f}, nil
}

// Release drops the flock and closes the lockfile. It does not remove
// the file, so the next Acquire reuses it — matching the original
// tool's behavior of leaving a stale PID on disk between runs.
func (l *ProcessLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	return l.file.Close()
}
