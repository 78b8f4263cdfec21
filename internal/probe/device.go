package probe

import "strings"

// nativeAudioCodecs lists the codecs a classic iPod plays without
// transcoding (spec §4.1 "Device-supported decision (audio)").
var nativeAudioCodecs = map[string]bool{
	"mp3":  true,
	"aac":  true, // AAC/ALAC share the "m4a" container; codec_name disambiguates.
	"alac": true,
}

// audioNativelySupported reports whether codec is one of the three
// natively playable audio codecs.
func audioNativelySupported(codec string) bool {
	return nativeAudioCodecs[strings.ToLower(codec)]
}

// videoCapability is one row of the device capability table (spec
// §4.1 "Device-supported decision (video)").
type videoCapability struct {
	name           string
	writable       bool
	maxWidth       int
	maxHeight      int
	maxVideoBitrate int
	maxFPS         float64
	maxAudioRate   int
	maxChannels    int
	profiles       map[string]bool
}

// videoCapabilityTable has two entries: the only device class this
// tool will ever write video to ("video-capable classic"), and a
// second documentation-only entry representing a higher-capability
// class that is never selected for writes (no construction path
// reaches it — see DESIGN.md).
var videoCapabilityTable = []videoCapability{
	{
		name:            "video-capable classic",
		writable:        true,
		maxWidth:        640,
		maxHeight:       480,
		maxVideoBitrate: 2_500_000,
		maxFPS:          30,
		maxAudioRate:    48_000,
		maxChannels:     2,
		profiles:        map[string]bool{"baseline": true, "constrained baseline": true},
	},
	{
		name:     "video-capable advanced (documentation only, not selectable)",
		writable: false,
		maxWidth: 1280, maxHeight: 720,
		maxVideoBitrate: 5_000_000,
		maxFPS:          30,
		maxAudioRate:    48_000,
		maxChannels:     2,
		profiles:        map[string]bool{"main": true, "high": true},
	},
}

// videoAccepted reports whether v fits a writable row of the device
// capability table.
func videoAccepted(v VideoStream, a AudioStream) (bool, error) {
	profile := strings.ToLower(v.Profile)
	for _, row := range videoCapabilityTable {
		if !row.writable {
			continue
		}
		if v.Width > row.maxWidth || v.Height > row.maxHeight {
			continue
		}
		if v.Bitrate > row.maxVideoBitrate {
			continue
		}
		if v.FPS > row.maxFPS {
			continue
		}
		if a.Samplerate > row.maxAudioRate {
			continue
		}
		if a.Channels > row.maxChannels {
			continue
		}
		if !row.profiles[profile] {
			continue
		}
		return true, nil
	}
	return false, nil
}
