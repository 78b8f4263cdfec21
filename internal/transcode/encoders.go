package transcode

import "fmt"

// encoderSpec describes one named output encoder: its ffmpeg codec
// name, supported sample rates, default sample format, and how a VBR
// 0..9 request maps onto the encoder's native quality knob (spec §4.2
// step 5 — "scale factor is encoder-specific").
type encoderSpec struct {
	ffmpegCodec     string
	outputExt       string
	supportedRates  []int
	defaultFormat   string
	qualityArg      func(vbr int, scale float64) []string // nil => use CBR bitrate arg instead
	cbrArg          func(bitsPerSec int) []string
	defaultScale    float64
}

// encoders is the registry backing spec §4.7's `encoder` option
// (mp3, aac (fdk), aac-ffmpeg, alac).
var encoders = map[string]encoderSpec{
	"mp3": {
		ffmpegCodec:    "libmp3lame",
		outputExt:      ".mp3",
		supportedRates: []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000},
		defaultFormat:  "s16p",
		defaultScale:   1.0,
		qualityArg: func(vbr int, scale float64) []string {
			// libmp3lame's -q:a is 0 (best) .. 9 (worst) — already the
			// same scale the spec's VBR 0..9 levels use.
			return []string{"-q:a", fmt.Sprintf("%d", int(float64(vbr)*scale))}
		},
		cbrArg: func(bps int) []string {
			return []string{"-b:a", fmt.Sprintf("%d", bps)}
		},
	},
	"aac": { // FDK-AAC
		ffmpegCodec:    "libfdk_aac",
		outputExt:      ".m4a",
		supportedRates: []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000},
		defaultFormat:  "s16",
		defaultScale:   1.0,
		qualityArg: func(vbr int, scale float64) []string {
			// FDK-AAC's VBR scale runs 1 (worst) .. 5 (best), the
			// reverse and narrower range of the spec's 0..9: remap
			// one-way via out = -(in/2 - 5), clamped into [1,5].
			fdk := -(float64(vbr)/2 - 5) * scale
			if fdk < 1 {
				fdk = 1
			}
			if fdk > 5 {
				fdk = 5
			}
			return []string{"-vbr", fmt.Sprintf("%d", int(fdk))}
		},
		cbrArg: func(bps int) []string {
			return []string{"-b:a", fmt.Sprintf("%d", bps)}
		},
	},
	"aac-ffmpeg": { // ffmpeg's native AAC encoder
		ffmpegCodec:    "aac",
		outputExt:      ".m4a",
		supportedRates: []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000},
		defaultFormat:  "fltp",
		defaultScale:   1.0,
		qualityArg: func(vbr int, scale float64) []string {
			return []string{"-q:a", fmt.Sprintf("%d", int(float64(vbr)*scale))}
		},
		cbrArg: func(bps int) []string {
			return []string{"-b:a", fmt.Sprintf("%d", bps)}
		},
	},
	"alac": {
		ffmpegCodec:    "alac",
		outputExt:      ".m4a",
		supportedRates: []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000, 96000},
		defaultFormat:  "s16p",
		defaultScale:   1.0,
		// ALAC is lossless: no quality knob, spec §4.2 step 5 "if
		// sentinel MAX, leave encoder defaults".
		qualityArg: nil,
		cbrArg:     nil,
	},
}

// resolveEncoder looks up name, or reports that it's unavailable so the
// orchestrator can apply its fallback policy (spec §4.2 step 2: "If the
// requested encoder isn't available, fail — the orchestrator handles
// fallback at a higher layer").
func resolveEncoder(name string) (encoderSpec, bool) {
	spec, ok := encoders[name]
	return spec, ok
}

// OutputExt reports the file extension a named encoder produces, so
// callers can name the output file before invoking Transcode.
func OutputExt(name string) (string, bool) {
	spec, ok := encoders[name]
	if !ok {
		return "", false
	}
	return spec.outputExt, true
}

// Available reports whether name is a registered encoder.
func Available(name string) bool {
	_, ok := encoders[name]
	return ok
}
