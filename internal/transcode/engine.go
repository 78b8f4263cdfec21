package transcode

import "github.com/whatdoineed2do/gpod-utils/internal/probe"

// Engine is the out-of-scope "audio demux/decode/encode primitives"
// library spec §1 assumes is available. Transcode is built against
// this interface rather than calling ffmpeg directly so the pipeline's
// control flow (sample-rate selection, quality mapping, metadata
// propagation) is testable independent of having a real ffmpeg binary
// on PATH; ffmpegEngine is the one concrete, subprocess-based
// implementation shipped here.
type Engine interface {
	// Run executes the full decode→resample→encode pipeline described
	// in spec §4.2 steps 1–9 and writes the result to req.OutputPath.
	Run(in *probe.MediaInfo, req Request, spec encoderSpec, outRate, outChannels int, qualityArgs []string) error
}
