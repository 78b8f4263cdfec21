package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/fingerprint"
	"github.com/whatdoineed2do/gpod-utils/internal/probe"
	"github.com/whatdoineed2do/gpod-utils/internal/transcode"
)

// processOne runs the full per-file pipeline (spec §4.7 "Per-file
// pipeline") for one requested input. requestedIdx is the input-order
// tag assigned at push time (spec §5 "Ordering guarantees": a log
// correlation id, not a completion order).
func (o *Orchestrator) processOne(requestedIdx int, path string) {
	if o.cancel.isSet() {
		return
	}

	if _, err := os.Stat(path); err != nil {
		o.recordFailure(requestedIdx, path, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path))
		return
	}

	gen := o.backend.DeviceInfo().Generation
	info, err := probe.Probe(o.opts.FFprobePath, o.opts.FFmpegPath, path, gen)
	if err != nil {
		o.recordFailure(requestedIdx, path, err)
		return
	}

	copyPath := path
	var transcodeTemp string
	if !info.SupportedIpod {
		if info.HasVideo {
			o.recordFailure(requestedIdx, path, fmt.Errorf("%w: %s", errs.ErrUnsupportedVideo, path))
			return
		}
		outPath, err := o.transcodeFile(info)
		if err != nil {
			o.recordFailure(requestedIdx, path, err)
			return
		}
		copyPath = outPath
		transcodeTemp = outPath
		info.Size = statSize(outPath)
	}
	if transcodeTemp != "" {
		defer os.Remove(transcodeTemp)
	}

	track := o.buildTrack(info, path, copyPath)

	digest, err := o.fp.HashAudio(copyPath)
	if err != nil {
		o.recordFailure(requestedIdx, path, err)
		return
	}
	checksum := fingerprint.Checksum(digest)
	track.UserField = fingerprint.EncodeStash(checksum)

	if o.cancel.isSet() {
		return
	}

	if err := o.commit(requestedIdx, track, copyPath); err != nil {
		o.recordFailure(requestedIdx, path, err)
	}
}

// transcodeFile resolves the configured encoder (applying the
// encoder_fallback policy, spec §4.7), runs the transcode, and returns
// the staged output path for the commit section to copy onto the
// device.
func (o *Orchestrator) transcodeFile(info *probe.MediaInfo) (string, error) {
	encoder := o.opts.Encoder
	if !transcode.Available(encoder) {
		if !o.opts.EncoderFallback {
			return "", fmt.Errorf("%w: encoder %q unavailable", transcode.ErrEncoderUnavailable, encoder)
		}
		encoder = "mp3"
	}
	ext, _ := transcode.OutputExt(encoder)

	prefix := filepath.Join(o.opts.TempDir, fmt.Sprintf("gpod-%d-%d", os.Getpid(), time.Now().UnixMicro()))
	req := transcode.Request{
		Encoder:      encoder,
		OutputExt:    ext,
		Quality:      o.opts.Quality,
		QualityScale: o.opts.QualityScale,
		SyncMeta:     o.opts.SyncMeta,
		TempPrefix:   prefix,
	}
	req.OutputPath = req.TempFile(ext)

	res, err := transcode.Transcode(o.engine, info, req)
	if err != nil {
		os.Remove(req.OutputPath)
		return "", err
	}
	info.Audio.Samplerate = res.Samplerate
	return res.OutputPath, nil
}

func statSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// buildTrack synthesizes a catalog.Track from MediaInfo (spec §4.7
// step 5), sanitizing text fields per opts.Sanitize and attaching the
// configured media-type bits.
func (o *Orchestrator) buildTrack(info *probe.MediaInfo, originalPath, copyPath string) *catalog.Track {
	meta := info.Meta
	timeAdded := o.opts.TimeAdded
	if timeAdded.IsZero() {
		timeAdded = time.Now().UTC()
	}

	t := &catalog.Track{
		Title:       sanitizeText(meta[probe.MetaTitle], o.opts.Sanitize),
		Album:       sanitizeText(meta[probe.MetaAlbum], o.opts.Sanitize),
		Artist:      sanitizeText(meta[probe.MetaArtist], o.opts.Sanitize),
		AlbumArtist: sanitizeText(meta[probe.MetaAlbumArtist], o.opts.Sanitize),
		Composer:    sanitizeText(meta[probe.MetaComposer], o.opts.Sanitize),
		Genre:       sanitizeText(meta[probe.MetaGenre], o.opts.Sanitize),
		Comment:     sanitizeText(meta[probe.MetaComment], o.opts.Sanitize),

		Size:       statSize(copyPath),
		DurationMS: info.Audio.DurationMS,
		Bitrate:    info.Audio.Bitrate,
		Samplerate: info.Audio.Samplerate,
		MediaType:  o.opts.MediaType,

		TimeAdded:    timeAdded,
		TimeModified: timeAdded,

		TrackNumber: atoi(meta[probe.MetaTrack]),
		TrackTotal:  atoi(meta[probe.MetaTrackTotal]),
		DiscNumber:  atoi(meta[probe.MetaDisc]),
		DiscTotal:   atoi(meta[probe.MetaDiscTotal]),
		Year:        probe.ReleaseYear(meta),
	}
	return t
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
