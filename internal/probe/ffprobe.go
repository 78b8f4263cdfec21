package probe

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/whatdoineed2do/gpod-utils/internal/errs"
)

// ffprobeOutput mirrors the subset of `ffprobe -print_format json
// -show_streams -show_format` this package consumes. Grounded on
// internal/ffmpeg/ffprobe.go's ffprobeOutput/ffprobeStream/ffprobeFormat
// shape.
type ffprobeOutput struct {
	Streams []ffprobeStream   `json:"streams"`
	Format  ffprobeFormat     `json:"format"`
}

type ffprobeStream struct {
	Index         int               `json:"index"`
	CodecName     string            `json:"codec_name"`
	CodecLongName string            `json:"codec_long_name"`
	CodecType     string            `json:"codec_type"`
	Profile       string            `json:"profile"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	SampleRate    string            `json:"sample_rate"`
	Channels      int               `json:"channels"`
	BitsPerSample int               `json:"bits_per_sample"`
	BitsPerRawSample string        `json:"bits_per_raw_sample"`
	BitRate       string            `json:"bit_rate"`
	Duration      string            `json:"duration"`
	AvgFrameRate  string            `json:"avg_frame_rate"`
	Tags          map[string]string `json:"tags"`
}

type ffprobeFormat struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

// runFFprobe shells out to ffprobe, the same subprocess-invocation
// idiom the teacher's package uses throughout (exec.Command + Output,
// json.Unmarshal).
func runFFprobe(ffprobePath, path string) (*ffprobeOutput, error) {
	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe %s: %v", errs.ErrProbeFailure, path, err)
	}

	var data ffprobeOutput
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, fmt.Errorf("%w: parse ffprobe output for %s: %v", errs.ErrProbeFailure, path, err)
	}
	return &data, nil
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func atofOr(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// parseFrameRate turns ffprobe's "num/den" avg_frame_rate string into a
// float fps value.
func parseFrameRate(s string) float64 {
	var num, den float64
	if n, err := fmt.Sscanf(s, "%f/%f", &num, &den); err == nil && n == 2 && den != 0 {
		return num / den
	}
	return atofOr(s, 0)
}
