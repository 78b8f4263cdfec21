package probe

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/whatdoineed2do/gpod-utils/internal/errs"
)

// Probe opens path for format inspection (no decode), selects the first
// audio stream in stream-index order (no other ranking between several
// audio streams is done), and determines whether it is natively acceptable by
// device generation gen. ffprobePath is the ffprobe binary to invoke;
// ffmpegPath is used only to annotate an UnsupportedVideo rejection with
// hardware-encoder availability (hwaccel.go).
func Probe(ffprobePath, ffmpegPath, path string, gen int) (*MediaInfo, error) {
	data, err := runFFprobe(ffprobePath, path)
	if err != nil {
		return nil, err
	}
	if len(data.Streams) == 0 {
		return nil, fmt.Errorf("%w: %s: no streams", errs.ErrProbeFailure, path)
	}

	info := &MediaInfo{
		Path:      path,
		Container: data.Format.FormatName,
		Meta:      make(map[string]string),
	}

	var audioStream, videoStream *ffprobeStream
	for i := range data.Streams {
		s := &data.Streams[i]
		switch s.CodecType {
		case "audio":
			if audioStream == nil {
				audioStream = s
			}
		case "video":
			// Embedded MJPEG cover art is not a video stream (spec §4.1).
			if strings.EqualFold(s.CodecName, "mjpeg") || strings.EqualFold(s.CodecName, "png") {
				continue
			}
			if videoStream == nil {
				videoStream = s
			}
		}
	}

	if audioStream == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrNoAudioStream, path)
	}

	info.HasAudio = true
	info.CodecID = audioStream.CodecName
	info.CodecDesc = audioStream.CodecLongName
	if info.CodecID == "" {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownCodec, path)
	}

	info.Audio = AudioStream{
		Codec:         audioStream.CodecName,
		Bitrate:       atoiOr(audioStream.BitRate, 0),
		Samplerate:    atoiOr(audioStream.SampleRate, 0),
		Channels:      audioStream.Channels,
		DurationMS:    int(atofOr(firstNonEmpty(audioStream.Duration, data.Format.Duration), 0) * 1000),
		BitsPerSample: audioStream.BitsPerSample,
	}
	if info.Audio.Bitrate == 0 {
		info.Audio.Bitrate = atoiOr(data.Format.BitRate, 0)
	}

	info.SupportedIpod = audioNativelySupported(info.CodecID)

	if videoStream != nil && strings.EqualFold(videoStream.CodecName, "h264") {
		info.HasVideo = true
		info.Video = VideoStream{
			Codec:   videoStream.CodecName,
			Width:   videoStream.Width,
			Height:  videoStream.Height,
			Profile: videoStream.Profile,
			FPS:     parseFrameRate(videoStream.AvgFrameRate),
			Bitrate: atoiOr(videoStream.BitRate, atoiOr(data.Format.BitRate, 0)),
		}

		ok, verr := videoAccepted(info.Video, info.Audio)
		if verr != nil {
			return nil, verr
		}
		if !ok {
			hw := DetectHardwareH264Encoder(ffmpegPath)
			hwNote := "no hardware H.264 encoder detected"
			if hw != "" {
				hwNote = fmt.Sprintf("hardware H.264 encoder %s was available", hw)
			}
			return nil, fmt.Errorf("%w: %s: %dx%d@%.1ffps %dbps profile=%s not in device capability table (%s)",
				errs.ErrUnsupportedVideo, path, info.Video.Width, info.Video.Height, info.Video.FPS, info.Video.Bitrate, info.Video.Profile, hwNote)
		}
		info.SupportedIpod = true
	}

	applyTagRules(info.Meta, data.Format.Tags, genericTagRules)
	for _, s := range data.Streams {
		applyTagRules(info.Meta, s.Tags, genericTagRules)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case strings.HasSuffix(info.CodecID, "mp3") || ext == ".mp3":
		applyTagRules(info.Meta, data.Format.Tags, id3TagRules)
	case ext == ".flac" || ext == ".ogg" || info.CodecID == "flac" || info.CodecID == "vorbis":
		applyTagRules(info.Meta, data.Format.Tags, vorbisTagRules)
	}

	return info, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
