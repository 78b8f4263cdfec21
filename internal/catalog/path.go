package catalog

import (
	"path/filepath"
	"strings"
)

// MusicDir returns the device's music directory root (spec §6:
// "music lives under iPod_Control/Music/"), for callers that need to
// walk the on-device filesystem directly (the Verifier's filesystem
// reconciliation passes).
func MusicDir(mount string) string {
	return filepath.Join(mount, relMusicDir)
}

// Demangle converts a persisted device-relative path (backslash
// separators) into a filesystem path rooted at mount.
func Demangle(mount, devicePath string) string {
	rel := strings.ReplaceAll(devicePath, `\`, "/")
	rel = strings.TrimPrefix(rel, "/")
	return strings.TrimRight(mount, "/") + "/" + rel
}

// Mangle converts a mount-relative filesystem path back into the
// backslash-separated form the catalog persists.
func Mangle(mount, fsPath string) string {
	rel := strings.TrimPrefix(fsPath, strings.TrimRight(mount, "/")+"/")
	return strings.ReplaceAll(rel, "/", `\`)
}
