// Package transcode implements the decode→resample→encode pipeline
// that produces a device-acceptable file when Media Probe reports a
// file as unsupported. Grounded on original_source/src/gpod-ffmpeg-transcode.c
// for pipeline ordering and on internal/ffmpeg's exec-wrapping idiom
// (loudness.go, hwaccel.go) for how the underlying ffmpeg subprocess is
// invoked.
package transcode

import "os"

// QualityMax is the sentinel meaning "lossless / not applicable" (used
// for ALAC, which has no lossy quality knob).
const QualityMax = -1

// VBRMax is the boundary between a VBR level (0..9) and a CBR bitrate
// (bits/sec) in the Quality field.
const VBRMax = 9

// Request is the transient transcode job description (spec §3
// TranscodeRequest).
type Request struct {
	Encoder        string // "mp3", "aac" (fdk), "aac-ffmpeg", "alac"
	OutputExt      string
	Channels       int // 0 = default (stereo, 2)
	Samplerate     int // 0 = inherit from input
	SampleFormat   string // "" = encoder default
	Quality        int    // VBR 0..9, CBR bits/sec if > VBRMax, or QualityMax
	QualityScale   float64
	SyncMeta       bool
	OutputPath     string
	TempPrefix     string
}

// TempFile derives a unique staging filename under TempPrefix, the
// spec's "(tempdir, pid)"-derived prefix, always followed by a short
// uuid suffix so requests sharing a prefix within the same process do
// not collide (internal/ingest also puts a time-of-day µs value into
// the prefix itself).
func (r *Request) TempFile(ext string) string {
	return r.TempPrefix + "-" + randSuffix() + ext
}

// Result reports what the transcode pipeline actually produced.
type Result struct {
	OutputPath string
	Size       int64
	Samplerate int
}

func statSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
