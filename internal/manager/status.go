package manager

import (
	"github.com/cwsl/radiod-engine/internal/channel"
	"github.com/cwsl/radiod-engine/internal/spectrum"
	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
)

// EncodeStatus serializes c's externally-visible state into a STATUS
// packet body (everything after the kind byte), echoing commandTag if
// nonzero so a poller can match the reply to its request.
func EncodeStatus(c *channel.Channel, commandTag uint32) []byte {
	c.Lock()
	defer c.Unlock()

	// A wideband spectrum response carries no channel output sample rate;
	// the spectrum's own geometry fields stand in for it (scenario: a
	// wideband RBW request against a real front end).
	outSamprate := uint32(c.Output.SampRate)
	isSpectrum := c.DemodType == channel.Spect || c.DemodType == channel.Spect2
	if isSpectrum && c.Spectrum.Demod != nil && c.Spectrum.Demod.Mode() == spectrum.Wideband {
		outSamprate = 0
	}

	buf := []byte{}
	if commandTag != 0 {
		buf = tlv.EncodeUint32(buf, wire.CommandTag, commandTag)
	}
	buf = tlv.EncodeUint32(buf, wire.OutputSSRC, c.SSRC)
	buf = tlv.EncodeFloat64(buf, wire.RadioFrequency, c.Tune.Freq)
	buf = tlv.EncodeFloat64(buf, wire.SecondLOFrequency, c.Tune.SecondLO)
	buf = tlv.EncodeFloat64(buf, wire.ShiftFrequency, c.Tune.Shift)
	buf = tlv.EncodeFloat64(buf, wire.LowEdge, c.Filter.MinIF)
	buf = tlv.EncodeFloat64(buf, wire.HighEdge, c.Filter.MaxIF)
	buf = tlv.EncodeFloat32(buf, wire.KaiserBeta, float32(c.Filter.KaiserBeta))
	buf = tlv.EncodeUint8(buf, wire.DemodType, uint8(c.DemodType))
	buf = tlv.EncodeUint32(buf, wire.OutputSamprate, outSamprate)
	buf = tlv.EncodeUint32(buf, wire.OutputChannels, uint32(c.Output.Channels))
	buf = tlv.EncodeString(buf, wire.OutputEncoding, c.Output.Encoding)
	buf = tlv.EncodeFloat64(buf, wire.Gain, c.Output.Gain)
	buf = tlv.EncodeFloat64(buf, wire.Headroom, c.Output.Headroom)
	buf = tlv.EncodeUint32(buf, wire.Minpacket, uint32(c.Output.Minpacket))

	switch c.DemodType {
	case channel.Linear:
		buf = tlv.EncodeBool(buf, wire.AGCEnable, c.Linear.AGCEnable)
		buf = tlv.EncodeFloat64(buf, wire.AGCThreshold, c.Linear.Threshold)
		buf = tlv.EncodeFloat64(buf, wire.AGCRecoveryRate, c.Linear.RecoveryRate)
		buf = tlv.EncodeFloat64(buf, wire.AGCHangtime, c.Linear.Hangtime)
		buf = tlv.EncodeBool(buf, wire.PLLEnable, c.PLL.Enable)
		buf = tlv.EncodeBool(buf, wire.PLLSquare, c.PLL.Square)
		buf = tlv.EncodeBool(buf, wire.PLLLock, c.PLL.Locked)
		buf = tlv.EncodeFloat64(buf, wire.PLLBandwidth, c.PLL.LoopBW)
	case channel.FM, channel.WFM:
		buf = tlv.EncodeFloat64(buf, wire.SquelchOpen, c.FM.SquelchOpen)
		buf = tlv.EncodeFloat64(buf, wire.SquelchClose, c.FM.SquelchClose)
		buf = tlv.EncodeBool(buf, wire.SNRSquelch, c.FM.SNRSquelchEnable)
	case channel.Spect, channel.Spect2:
		noiseBW := c.Spectrum.NoiseBW
		fftN := 0
		if c.Spectrum.Demod != nil {
			fftN = c.Spectrum.Demod.FFTSize()
			noiseBW = c.Spectrum.Demod.NoiseBandwidth()
		}
		buf = tlv.EncodeFloat64(buf, wire.NoncoherentBinBW, noiseBW)
		buf = tlv.EncodeFloat64(buf, wire.Crossover, c.Spectrum.Crossover)
		buf = tlv.EncodeUint32(buf, wire.BinCount, uint32(c.Spectrum.BinCount))
		buf = tlv.EncodeUint8(buf, wire.WindowType, uint8(c.Spectrum.WindowType))
		buf = tlv.EncodeUint32(buf, wire.SpectrumFFTN, uint32(fftN))
		if c.Spectrum.Bins != nil {
			buf = tlv.EncodeBytes(buf, wire.BinData, c.Spectrum.Bins)
		}
	}

	buf = tlv.EncodeUint64(buf, wire.CmdCnt, c.Status.PacketsIn)
	buf = tlv.EncodeEOL(buf)
	return buf
}
