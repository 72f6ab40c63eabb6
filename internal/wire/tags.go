// Package wire sits on top of tlv and owns the closed set of recognized
// field types, the packet-kind prefix byte, and the "is this packet meant
// for a receiver tracking a given SSRC" filter. Nothing here touches a
// socket; mcast does that.
package wire

import (
	"fmt"

	"github.com/cwsl/radiod-engine/internal/tlv"
)

// Kind is the one-byte packet-kind prefix that precedes the TLV stream in
// every status/command datagram.
type Kind uint8

const (
	Status Kind = 0
	Cmd    Kind = 1
)

// The recognized field types. Numeric values for COMMAND_TAG, OUTPUT_SSRC
// and the handful of others fixed by a live implementation are kept exactly
// as that implementation uses them; the remainder of the closed set named
// in the protocol's glossary is given sequential unused numbers, since the
// set is closed but its concrete wire values are not pinned down anywhere
// in reach — only the name and semantics are.
const (
	EOL tlv.Type = 0

	// Command/response linkage and addressing.
	CommandTag tlv.Type = 1
	CmdCnt     tlv.Type = 38
	OutputSSRC tlv.Type = 18

	// Timing and identification.
	GPSTime          tlv.Type = 2
	Description      tlv.Type = 3
	StatusDestSocket tlv.Type = 4

	// Sample rates and channel geometry.
	InputSamprate  tlv.Type = 5
	OutputSamprate tlv.Type = 6
	OutputChannels tlv.Type = 7
	OutputEncoding tlv.Type = 8

	// Tuning.
	RadioFrequency    tlv.Type = 33
	FirstLOFrequency  tlv.Type = 9
	SecondLOFrequency tlv.Type = 10
	ShiftFrequency    tlv.Type = 11

	// Pre-detection filter.
	LowEdge    tlv.Type = 39
	HighEdge   tlv.Type = 40
	KaiserBeta tlv.Type = 12

	// Demodulator selection and state.
	DemodType       tlv.Type = 13
	PLLEnable       tlv.Type = 14
	PLLLock         tlv.Type = 15
	PLLSquare       tlv.Type = 16
	PLLBandwidth    tlv.Type = 17
	AGCEnable       tlv.Type = 19
	Headroom        tlv.Type = 20
	AGCHangtime     tlv.Type = 21
	AGCRecoveryRate tlv.Type = 22
	AGCThreshold    tlv.Type = 23
	Gain            tlv.Type = 24

	// Squelch / gain front end.
	SquelchOpen  tlv.Type = 83
	SquelchClose tlv.Type = 84
	Preset       tlv.Type = 85
	SNRSquelch   tlv.Type = 92

	// Front-end status.
	LNAGain          tlv.Type = 30
	MixerGain        tlv.Type = 31
	IFGain           tlv.Type = 32
	IFPower          tlv.Type = 47
	RFAtten          tlv.Type = 96
	RFGain           tlv.Type = 97
	RFAGC            tlv.Type = 98
	ADOverrange      tlv.Type = 103
	SamplesSinceOver tlv.Type = 107
	StatusInterval   tlv.Type = 106

	// Spectrum demodulator. RESOLUTION_BW is the same wire field as
	// NONCOHERENT_BIN_BW under the name the glossary also uses for it.
	NoncoherentBinBW tlv.Type = 93
	ResolutionBW     tlv.Type = NoncoherentBinBW
	BinCount         tlv.Type = 94
	BinData          tlv.Type = 25
	SpectrumFFTN     tlv.Type = 26
	SpectrumAvg      tlv.Type = 27
	WindowType       tlv.Type = 28
	SpectrumShape    tlv.Type = 29
	Crossover        tlv.Type = 34

	// Audio output / codec parameters.
	OpusBitRate tlv.Type = 35
	Minpacket   tlv.Type = 36
	Filter2     tlv.Type = 37
)

// TagName returns a human-readable name for diagnostics/logging, falling
// back to a numeric label for anything outside the recognized set.
func TagName(t tlv.Type) string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

var tagNames = map[tlv.Type]string{
	EOL:               "eol",
	CommandTag:        "command_tag",
	CmdCnt:            "cmd_cnt",
	OutputSSRC:        "output_ssrc",
	GPSTime:           "gps_time",
	Description:       "description",
	StatusDestSocket:  "status_dest_socket",
	InputSamprate:     "input_samprate",
	OutputSamprate:    "output_samprate",
	OutputChannels:    "output_channels",
	OutputEncoding:    "output_encoding",
	RadioFrequency:    "radio_frequency",
	FirstLOFrequency:  "first_lo_frequency",
	SecondLOFrequency: "second_lo_frequency",
	ShiftFrequency:    "shift_frequency",
	LowEdge:           "low_edge",
	HighEdge:          "high_edge",
	KaiserBeta:        "kaiser_beta",
	DemodType:         "demod_type",
	PLLEnable:         "pll_enable",
	PLLLock:           "pll_lock",
	PLLSquare:         "pll_square",
	PLLBandwidth:      "pll_bw",
	AGCEnable:         "agc_enable",
	Headroom:          "headroom",
	AGCHangtime:       "agc_hangtime",
	AGCRecoveryRate:   "agc_recovery_rate",
	AGCThreshold:      "agc_threshold",
	Gain:              "gain",
	SquelchOpen:       "squelch_open",
	SquelchClose:      "squelch_close",
	Preset:            "preset",
	SNRSquelch:        "snr_squelch",
	LNAGain:           "lna_gain",
	MixerGain:         "mixer_gain",
	IFGain:            "if_gain",
	IFPower:           "if_power",
	RFAtten:           "rf_atten",
	RFGain:            "rf_gain",
	RFAGC:             "rf_agc",
	ADOverrange:       "ad_overrange",
	SamplesSinceOver:  "samples_since_over",
	StatusInterval:    "status_interval",
	NoncoherentBinBW:  "noncoherent_bin_bw",
	BinCount:          "bin_count",
	BinData:           "bin_data",
	SpectrumFFTN:      "spectrum_fft_n",
	SpectrumAvg:       "spectrum_avg",
	WindowType:        "window_type",
	SpectrumShape:     "spectrum_shape",
	Crossover:         "crossover",
	OpusBitRate:       "opus_bit_rate",
	Minpacket:         "minpacket",
	Filter2:           "filter2",
}
