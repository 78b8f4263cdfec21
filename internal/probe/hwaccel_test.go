package probe

import "testing"

// TestDetectEncoderFallback exercises the no-hardware-encoder path: an
// ffmpeg binary that can't be invoked at all must fall back to "" rather
// than panic or propagate the exec error.
func TestDetectEncoderFallback(t *testing.T) {
	hwMu.Lock()
	hwProbed, hwFound = false, ""
	hwMu.Unlock()

	got := DetectHardwareH264Encoder("/nonexistent/ffmpeg-binary-does-not-exist")
	if got != "" {
		t.Errorf("DetectHardwareH264Encoder() = %q, want \"\" on exec failure", got)
	}
}
