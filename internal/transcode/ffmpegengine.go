package transcode

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/probe"
)

// ffmpegEngine shells out to ffmpeg to perform the decode→resample→
// encode pipeline, the same subprocess-invocation idiom as
// internal/ffmpeg/loudness.go and hwaccel.go: build an argument slice
// positionally, run it, and wrap any failure with the command's
// stderr tail. ffmpeg's own muxer performs the FIFO staging and PTS
// bookkeeping spec §4.2 steps 8–9 describe; hand-rolling that at the
// packet level would mean reimplementing libavcodec, which is an
// explicit Non-goal.
type ffmpegEngine struct {
	ffmpegPath string
}

// NewFFmpegEngine constructs the default Engine.
func NewFFmpegEngine(ffmpegPath string) Engine {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &ffmpegEngine{ffmpegPath: ffmpegPath}
}

func (e *ffmpegEngine) Run(in *probe.MediaInfo, req Request, spec encoderSpec, outRate, outChannels int, qualityArgs []string) error {
	args := []string{"-hide_banner", "-y", "-i", in.Path}

	if req.SyncMeta {
		args = append(args, "-map_metadata", "0")
	} else {
		args = append(args, "-map_metadata", "-1")
	}

	args = append(args,
		"-vn",
		"-ar", strconv.Itoa(outRate),
		"-ac", strconv.Itoa(outChannels),
		"-c:a", spec.ffmpegCodec,
	)
	if req.SampleFormat != "" {
		args = append(args, "-sample_fmt", req.SampleFormat)
	}
	args = append(args, qualityArgs...)
	args = append(args, req.OutputPath)

	cmd := exec.Command(e.ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg %s -> %s: %s", errs.ErrTranscodeFailure, in.Path, req.OutputPath, lastLines(string(out), 20))
	}
	return nil
}

// lastLines mirrors internal/ffmpeg/loudness.go's helper of the same
// name: ffmpeg's useful diagnostics are usually in the final lines of
// stderr.
func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
