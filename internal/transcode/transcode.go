package transcode

import (
	"fmt"

	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/probe"
)

// ErrEncoderUnavailable is returned when the requested encoder name
// isn't registered; the ingest orchestrator applies the
// encoder_fallback policy (spec §4.7) on top of this.
var ErrEncoderUnavailable = fmt.Errorf("encoder unavailable")

// Transcode runs the full pipeline (spec §4.2) against an already-
// probed input and writes req.OutputPath. On success it returns the
// output's size and actual sample rate, from which the caller refreshes
// its MediaInfo (in is not modified); on failure the partially written
// file is left on disk for the caller to remove.
func Transcode(engine Engine, in *probe.MediaInfo, req Request) (*Result, error) {
	spec, ok := resolveEncoder(req.Encoder)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEncoderUnavailable, req.Encoder)
	}

	outRate := req.Samplerate
	if outRate == 0 {
		outRate = in.Audio.Samplerate
	}
	outRate = chooseSampleRate(spec.supportedRates, outRate)

	outChannels := req.Channels
	if outChannels == 0 {
		outChannels = 2
	}

	qualityArgs, err := resolveQualityArgs(spec, req)
	if err != nil {
		return nil, err
	}

	if err := engine.Run(in, req, spec, outRate, outChannels, qualityArgs); err != nil {
		return nil, err
	}

	size := statSize(req.OutputPath)
	if size == 0 {
		return nil, fmt.Errorf("%w: %s: output missing or empty", errs.ErrTranscodeFailure, req.OutputPath)
	}

	return &Result{OutputPath: req.OutputPath, Size: size, Samplerate: outRate}, nil
}

// resolveQualityArgs implements spec §4.2 step 5: MAX sentinel leaves
// encoder defaults; values above VBRMax are a CBR bitrate; otherwise a
// VBR level scaled by the encoder's quality-scale factor.
func resolveQualityArgs(spec encoderSpec, req Request) ([]string, error) {
	if req.Quality == QualityMax {
		return nil, nil
	}

	scale := req.QualityScale
	if scale == 0 {
		scale = spec.defaultScale
	}

	if req.Quality > VBRMax {
		if spec.cbrArg == nil {
			return nil, fmt.Errorf("%w: encoder %q has no CBR mode", errs.ErrTranscodeFailure, req.Encoder)
		}
		return spec.cbrArg(req.Quality), nil
	}

	if spec.qualityArg == nil {
		return nil, nil
	}
	return spec.qualityArg(req.Quality, scale), nil
}
