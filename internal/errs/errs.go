// Package errs enumerates the sentinel error kinds used across the
// ingest pipeline (probe, transcode, catalog commit, locking) so callers
// can classify failures with errors.Is instead of string matching.
package errs

import "errors"

// Per-item errors: recovered locally, accumulated into a failures list,
// and reported at the end of a run. Never fatal on their own.
var (
	ErrFileNotFound     = errors.New("input file not found")
	ErrProbeFailure     = errors.New("probe failed")
	ErrNoAudioStream    = errors.New("no usable audio stream")
	ErrUnknownCodec     = errors.New("unknown codec")
	ErrUnsupportedVideo = errors.New("video not supported by device capability table")
	ErrTranscodeFailure = errors.New("transcode failed")
	ErrDuplicateTrack   = errors.New("duplicate track")
	ErrCopyFailure      = errors.New("device copy failed")
)

// Fatal errors: abort the run and determine the process exit code.
var (
	ErrLockContention    = errors.New("another gpod process is running against this device")
	ErrUnsupportedDevice = errors.New("device generation is not known-writable")
	ErrCatalogOpen       = errors.New("catalog open/parse failed")
	ErrCatalogWrite      = errors.New("catalog write failed")
)

// Exit codes, per spec §6.
const (
	ExitOK              = 0
	ExitLockContention  = 2
	ExitCatalogOpenFail = 255 // -1 as an 8-bit process exit code
	ExitCatalogWriteFail = 1
)
