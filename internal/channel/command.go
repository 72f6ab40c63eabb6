package channel

import (
	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
	"github.com/cwsl/radiod-engine/internal/window"
)

// ApplyFields decodes command-tagged wire fields directly onto the
// channel's typed parameters, the command-arbitration counterpart of
// EncodeStatus's serialization. It runs under the channel's own lock and
// returns true if a structural parameter changed (sample rate, demod
// type, or any spectrum-sizing field), setting RestartNeeded to match.
func (c *Channel) ApplyFields(fields []tlv.Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	restart := false
	spectrumChanged := false

	for _, f := range fields {
		switch f.Type {
		case wire.RadioFrequency:
			c.Tune.Freq = tlv.DecodeFloat64(f.Value)
		case wire.SecondLOFrequency:
			c.Tune.SecondLO = tlv.DecodeFloat64(f.Value)
		case wire.ShiftFrequency:
			c.Tune.Shift = tlv.DecodeFloat64(f.Value)
		case wire.LowEdge:
			c.Filter.SetEdges(tlv.DecodeFloat64(f.Value), c.Filter.MaxIF)
		case wire.HighEdge:
			c.Filter.SetEdges(c.Filter.MinIF, tlv.DecodeFloat64(f.Value))
		case wire.KaiserBeta:
			c.Filter.KaiserBeta = float64(tlv.DecodeFloat32(f.Value))
		case wire.DemodType:
			if dt := DemodType(tlv.DecodeUint8(f.Value)); dt != c.DemodType {
				c.DemodType = dt
				restart = true
				if dt == Spect || dt == Spect2 {
					spectrumChanged = true
				}
			}
		case wire.OutputSamprate:
			if sr := int(tlv.DecodeUint32(f.Value)); sr != c.Output.SampRate {
				c.Output.SampRate = sr
				restart = true
			}
		case wire.OutputChannels:
			c.Output.Channels = int(tlv.DecodeUint32(f.Value))
		case wire.OutputEncoding:
			c.Output.Encoding = tlv.DecodeString(f.Value)
		case wire.Gain:
			c.Output.Gain = tlv.DecodeFloat64(f.Value)
		case wire.Headroom:
			c.Output.Headroom = tlv.DecodeFloat64(f.Value)
		case wire.Minpacket:
			c.Output.Minpacket = int(tlv.DecodeUint32(f.Value))
		case wire.AGCEnable:
			c.Linear.AGCEnable = tlv.DecodeBool(f.Value)
		case wire.AGCThreshold:
			c.Linear.Threshold = tlv.DecodeFloat64(f.Value)
		case wire.AGCRecoveryRate:
			c.Linear.RecoveryRate = tlv.DecodeFloat64(f.Value)
		case wire.AGCHangtime:
			c.Linear.Hangtime = tlv.DecodeFloat64(f.Value)
		case wire.PLLEnable:
			c.PLL.Enable = tlv.DecodeBool(f.Value)
		case wire.PLLSquare:
			c.PLL.Square = tlv.DecodeBool(f.Value)
			if c.PLL.Square {
				c.PLL.Enable = true // square implies pll
			}
		case wire.PLLBandwidth:
			c.PLL.LoopBW = tlv.DecodeFloat64(f.Value)
		case wire.SquelchOpen:
			c.FM.SquelchOpen = tlv.DecodeFloat64(f.Value)
		case wire.SquelchClose:
			c.FM.SquelchClose = tlv.DecodeFloat64(f.Value)
		case wire.SNRSquelch:
			c.FM.SNRSquelchEnable = tlv.DecodeBool(f.Value)
		case wire.OpusBitRate:
			if br := int(tlv.DecodeUint32(f.Value)); br > 0 {
				if br < 510 {
					br *= 1000 // below 510, the value is kbit/s
				}
				if br <= 510000 {
					c.Output.Opus.BitRate = br
				}
			}
		case wire.Filter2:
			c.Filter2Blocking = int(tlv.DecodeUint32(f.Value))
		case wire.Crossover:
			if v := tlv.DecodeFloat64(f.Value); v != c.Spectrum.Crossover {
				c.Spectrum.Crossover = v
				spectrumChanged = true
			}
		case wire.NoncoherentBinBW: // same wire value as wire.ResolutionBW
			if v := tlv.DecodeFloat64(f.Value); v != c.Spectrum.RBW {
				c.Spectrum.RBW = v
				spectrumChanged = true
			}
		case wire.BinCount:
			if n := int(tlv.DecodeUint32(f.Value)); n != c.Spectrum.BinCount {
				c.Spectrum.BinCount = n
				spectrumChanged = true
			}
		case wire.WindowType:
			if wt := window.Type(tlv.DecodeUint8(f.Value)); wt != c.Spectrum.WindowType {
				c.Spectrum.WindowType = wt
				spectrumChanged = true
			}
		case wire.SpectrumAvg:
			c.Spectrum.FFTAvg = int(tlv.DecodeUint32(f.Value))
		case wire.SpectrumShape:
			shape := tlv.DecodeFloat64(f.Value)
			c.Spectrum.WindowParams.KaiserBeta = shape
			c.Spectrum.WindowParams.GaussianAlpha = shape
		}
	}

	if (c.DemodType == Spect || c.DemodType == Spect2) && (spectrumChanged || c.Spectrum.Demod == nil) {
		if _, err := c.ConfigureSpectrum(); err == nil {
			restart = true
		}
	}

	if restart {
		c.RestartNeeded = true
	}
	return restart
}
