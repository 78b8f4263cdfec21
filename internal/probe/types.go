// Package probe opens a media file for format inspection only (no
// decode) and determines whether it is natively playable by a given
// device generation. Grounded on internal/ffmpeg/ffprobe.go's exec
// wrapping idiom, generalized to the spec's richer MediaInfo model and
// three-tier tag dictionary (internal/probe/tags.go).
package probe

// AudioStream describes the probed audio substream.
type AudioStream struct {
	Codec         string
	Bitrate       int
	Samplerate    int
	Channels      int
	DurationMS    int
	BitsPerSample int
}

// VideoStream describes the probed video substream.
type VideoStream struct {
	Codec   string
	Width   int
	Height  int
	Profile string
	FPS     float64
	Bitrate int
}

// MediaInfo is the probe's output: container/codec identity, whether
// the file is natively device-playable, and a canonicalized metadata
// bag.
type MediaInfo struct {
	Path string

	Container      string
	CodecID        string
	CodecDesc      string
	HasAudio       bool
	HasVideo       bool
	SupportedIpod  bool

	Audio AudioStream
	Video VideoStream

	Meta map[string]string

	// Size is left zero by Probe; the ingest pipeline sets it from the
	// Transcoder's output file after a transcode (spec §4.2 step 10).
	Size int64
}

// Canonical metadata keys populated in MediaInfo.Meta.
const (
	MetaTitle           = "title"
	MetaArtist          = "artist"
	MetaAlbum           = "album"
	MetaAlbumArtist     = "album_artist"
	MetaGenre           = "genre"
	MetaComposer        = "composer"
	MetaGrouping        = "grouping"
	MetaComment         = "comment"
	MetaTrack           = "track"
	MetaTrackTotal      = "track_total"
	MetaDisc            = "disc"
	MetaDiscTotal       = "disc_total"
	MetaYear            = "year"
	MetaTitleSort       = "title_sort"
	MetaArtistSort      = "artist_sort"
	MetaAlbumSort       = "album_sort"
	MetaAlbumArtistSort = "album_artist_sort"
	MetaComposerSort    = "composer_sort"
	MetaCompilation     = "compilation"
)
