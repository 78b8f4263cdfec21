// Package config centralizes environment/flag-value parsing shared by
// the cmd/gpod-* binaries. Grounded on the teacher's internal/config
// env/envInt helper pair (os.Getenv with a typed fallback), generalized
// from ad hoc strconv calls to github.com/spf13/cast's permissive
// string->typed coercion, since the CLI surface (spec §6) accepts a
// wider variety of string encodings (Y/N booleans, vbrN/cbrN quality
// tokens, ISO-8601 timestamps) than the teacher's plain ints and
// strings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
)

// Env reads an environment variable, falling back to a default when
// unset or empty.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TempDir resolves the transcode staging directory per spec §6:
// $TMPDIR, else /tmp.
func TempDir() string {
	return Env("TMPDIR", "/tmp")
}

// ParseYN parses the flag-style "Y"/"N" boolean convention used across
// the ingest CLI flags (spec §6), falling back to cast's more general
// truthy/falsy coercion for flags that arrive as "true"/"false"/"1"/"0"
// from config files or env vars.
func ParseYN(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES":
		return true, nil
	case "N", "NO":
		return false, nil
	}
	return cast.ToBoolE(s)
}

// ParseMediaType maps the CLI's audio/podcast/audiobook token (spec
// §6) to the catalog media-type bitfield.
func ParseMediaType(s string) (catalog.MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "audio":
		return catalog.MediaAudio, nil
	case "podcast":
		return catalog.MediaPodcast, nil
	case "audiobook":
		return catalog.MediaAudiobook, nil
	case "movie", "video":
		return catalog.MediaMovie, nil
	}
	return catalog.MediaAudio, fmt.Errorf("unrecognized media type %q", s)
}

// ParseQuality parses the encoder-quality flag (spec §6): "vbr0".."vbr9"
// or "cbr<kbps>" (e.g. "cbr192" meaning 192000 bits/sec), or the
// literal "max" for the MAX sentinel.
func ParseQuality(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "max":
		return -1, nil
	case strings.HasPrefix(s, "vbr"):
		return cast.ToIntE(strings.TrimPrefix(s, "vbr"))
	case strings.HasPrefix(s, "cbr"):
		kbps, err := cast.ToIntE(strings.TrimPrefix(s, "cbr"))
		if err != nil {
			return 0, err
		}
		return kbps * 1000, nil
	}
	return 0, fmt.Errorf("unrecognized quality token %q", s)
}

// ParseTimeAdded parses the ISO-8601 tracks-time-added override flag
// (spec §6), or returns the zero time for an empty string (meaning
// "use the real clock").
func ParseTimeAdded(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ISO-8601 timestamp %q", s)
}

// ClampThreads applies the max_threads rule from spec §4.7/§5: default
// to the online CPU count when n <= 0, clamped to 2x CPUs.
func ClampThreads(n, cpus int) int {
	if cpus <= 0 {
		cpus = 1
	}
	if n <= 0 {
		n = cpus
	}
	if max := 2 * cpus; n > max {
		n = max
	}
	return n
}

// ParseIDOrPath implements the remove CLI's heuristic (spec §6): an
// all-digits argument is a numeric track ID, anything else is a
// device-relative path.
func ParseIDOrPath(arg string) (id int64, isID bool) {
	if arg == "" {
		return 0, false
	}
	for _, c := range arg {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
