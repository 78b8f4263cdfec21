package ingest

import (
	"runtime"
	"time"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/config"
)

// Options is the immutable configuration captured at worker-pool
// construction (spec §4.7 "Configuration enumerated", and DESIGN NOTES
// "Module-level mutable options struct": threaded through as a value,
// not read off a shared mutable global).
type Options struct {
	MountPath string

	Checksum bool
	Force    bool

	Encoder          string
	EncoderFallback  bool
	Quality          int
	QualityScale     float64
	SyncMeta         bool

	TimeAdded time.Time
	Sanitize  bool
	Replace   bool

	RecentPlaylistName  string
	RecentPlaylistLimit int

	MaxThreads int
	MediaType  catalog.MediaType

	FFprobePath string
	FFmpegPath  string
	TempDir     string

	// SyncEveryN is the checkpoint interval for periodic write_catalog
	// calls from within the commit section (spec §4.7 step 7e).
	SyncEveryN int
}

// DefaultOptions returns the spec's documented defaults (§4.7, §6),
// with MaxThreads resolved against the host's online CPU count.
func DefaultOptions() Options {
	return Options{
		Checksum:            true,
		EncoderFallback:     true,
		Encoder:             "mp3",
		Quality:             -1,
		SyncMeta:            true,
		Sanitize:            true,
		Replace:             false,
		RecentPlaylistName:  "",
		RecentPlaylistLimit: 50,
		MaxThreads:          config.ClampThreads(0, runtime.NumCPU()),
		MediaType:           catalog.MediaAudio,
		FFprobePath:         "ffprobe",
		FFmpegPath:          "ffmpeg",
		TempDir:             config.TempDir(),
		SyncEveryN:          10,
	}
}
