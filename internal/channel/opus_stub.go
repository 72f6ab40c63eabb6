//go:build !opus
// +build !opus

package channel

import "fmt"

// ValidateOpusParams is the no-cgo stub: it checks only the range
// invariants the preset loader already enforces (bitrate <= 510000, fec
// 0..100) since no real encoder is linked in to validate against.
func ValidateOpusParams(p OpusParams, sampleRate int) error {
	if p.BitRate > 510000 {
		return fmt.Errorf("opus: bitrate %d above 510000", p.BitRate)
	}
	if p.FEC < 0 || p.FEC > 100 {
		return fmt.Errorf("opus: fec %d outside 0..100", p.FEC)
	}
	return nil
}

// OpusBuildTag reports which Opus build this binary was compiled with, for
// diagnostics in the status response.
const OpusBuildTag = "stub"
