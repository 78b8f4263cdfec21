package probe

import (
	"os/exec"
	"strings"
	"sync"
)

// hwEncoderProbe mirrors internal/ffmpeg/hwaccel.go's DetectH264Encoder
// shape (probe -encoders output, cache the result). It has no bearing on
// audio codec selection; it exists only to annotate an UnsupportedVideo
// rejection (probe.go) with whether a hardware H.264 encoder was at
// least present, which is occasionally useful context when a video is
// rejected by the device capability table rather than by raw lack of
// codec support.
var (
	hwMu     sync.Mutex
	hwProbed bool
	hwFound  string
)

// DetectHardwareH264Encoder reports the first available hardware H.264
// encoder ffmpeg advertises, or "" if none. Result is cached after the
// first call.
func DetectHardwareH264Encoder(ffmpegPath string) string {
	hwMu.Lock()
	defer hwMu.Unlock()
	if hwProbed {
		return hwFound
	}
	hwProbed = true

	out, _ := exec.Command(ffmpegPath, "-hide_banner", "-encoders").Output()
	list := string(out)
	for _, enc := range []string{"h264_nvenc", "h264_qsv", "h264_vaapi"} {
		if strings.Contains(list, enc) {
			hwFound = enc
			return enc
		}
	}
	return ""
}
