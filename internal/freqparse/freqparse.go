// Package freqparse parses the frequency strings accepted by tuning-related
// preset keys: plain decimals, decimals with an SI suffix (k/K, M, G), and
// the "funky" ham-radio convention where a unit letter embedded in the
// digits stands in for the decimal point, e.g. "147m435" means 147.435 MHz.
package freqparse

import (
	"fmt"
	"strconv"
	"strings"
)

// unitScale maps a suffix letter to the multiplier that converts its unit
// to Hz. The embedded-letter ("funky") form uses the same table: the
// letter says what unit the digits before it are in.
var unitScale = map[byte]float64{
	'k': 1e3, 'K': 1e3,
	'm': 1e6, 'M': 1e6,
	'g': 1e9, 'G': 1e9,
}

// Parse converts a frequency string to Hz. When funky is true, a unit
// letter embedded between two digit runs (neither at the start nor the end
// of the string) is read as a decimal point in that unit rather than a
// trailing SI suffix, matching the ham convention of writing "147m435" for
// 147.435 MHz to avoid a decimal point getting lost in transcription.
func Parse(s string, funky bool) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("freqparse: empty frequency string")
	}

	if funky {
		if hz, ok := parseFunky(s); ok {
			return hz, nil
		}
	}

	// Trailing SI suffix: a single unit letter with no digits after it.
	last := s[len(s)-1]
	if scale, ok := unitScale[last]; ok {
		numPart := s[:len(s)-1]
		v, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, fmt.Errorf("freqparse: invalid frequency %q: %w", s, err)
		}
		return v * scale, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("freqparse: invalid frequency %q: %w", s, err)
	}
	return v, nil
}

// parseFunky looks for exactly one unit letter with at least one digit on
// each side and treats it as a decimal point scaled to that unit. Anything
// else (no embedded letter, letter at an end, multiple letters) is not a
// funky form and ok is false so the caller falls back to plain parsing.
func parseFunky(s string) (hz float64, ok bool) {
	pos := -1
	var unit byte
	for i := 1; i < len(s)-1; i++ {
		c := s[i]
		if _, isUnit := unitScale[c]; !isUnit {
			continue
		}
		if pos != -1 {
			// more than one candidate letter: ambiguous, not funky
			return 0, false
		}
		pos = i
		unit = c
	}
	if pos == -1 {
		return 0, false
	}
	intPart := s[:pos]
	fracPart := s[pos+1:]
	if !isAllDigits(intPart) || !isAllDigits(fracPart) {
		return 0, false
	}
	v, err := strconv.ParseFloat(intPart+"."+fracPart, 64)
	if err != nil {
		return 0, false
	}
	return v * unitScale[unit], true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
