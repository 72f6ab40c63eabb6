package channel

import (
	"fmt"

	"github.com/cwsl/radiod-engine/internal/frontend"
	"github.com/cwsl/radiod-engine/internal/spectrum"
	"github.com/cwsl/radiod-engine/internal/window"
)

// SpectrumState is the spectrum-demodulator configuration and most
// recently computed output for a channel whose DemodType is Spect or
// Spect2. Demod is nil until ConfigureSpectrum has run at least once.
type SpectrumState struct {
	RBW          float64
	BinCount     int
	Crossover    float64
	WindowType   window.Type
	WindowParams window.Params
	FFTAvg       int

	Demod   *spectrum.Demodulator
	NoiseBW float64
	Bins    []byte // one byte per bin, EncodeBytes output, shifted wire order
}

// ConfigureSpectrum (re)builds the channel's spectrum demodulator from its
// current SpectrumState and the shared front end's geometry, returning
// true if this is a structural change (a fresh build or a change to any of
// RBW/bin_count/crossover/window, mirroring the control plane's
// restart_needed rule for the spectrum path).
func (c *Channel) ConfigureSpectrum() (bool, error) {
	if c.FrontEnd == nil {
		return false, fmt.Errorf("channel: spectrum configured with no front end attached")
	}

	samprateBase := float64(c.Output.SampRate)
	if samprateBase <= 0 {
		samprateBase = 8000
	}
	params := spectrum.Params{
		FrontendSamprate: c.FrontEnd.Samprate,
		FrontendComplex:  c.FrontEnd.Complex,
		SamprateBase:     samprateBase,
		RBW:              c.Spectrum.RBW,
		BinCount:         c.Spectrum.BinCount,
		Crossover:        c.Spectrum.Crossover,
		WindowType:       c.Spectrum.WindowType,
		WindowParams:     c.Spectrum.WindowParams,
		FFTAvg:           c.Spectrum.FFTAvg,
		Overlap:          1,
	}

	restart := c.Spectrum.Demod == nil
	if c.Spectrum.Demod == nil {
		c.Spectrum.Demod = spectrum.New(params)
	} else {
		c.Spectrum.Demod.Reconfigure(params)
		restart = true
	}
	if err := c.Spectrum.Demod.Configure(); err != nil {
		return restart, err
	}
	c.Spectrum.NoiseBW = c.Spectrum.Demod.NoiseBandwidth()
	return restart, nil
}

// PollSpectrum runs one poll cycle of the channel's spectrum demodulator
// against the shared front end, storing the compact byte-encoded bins and
// current noise bandwidth for the next status response. binShift is the
// bin offset implied by the channel's tune frequency relative to the front
// end's center frequency.
func (c *Channel) PollSpectrum(binShift int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FrontEnd == nil {
		return fmt.Errorf("channel %#x: no front end attached", c.SSRC)
	}
	if c.Spectrum.Demod == nil {
		return fmt.Errorf("channel %#x: spectrum not configured", c.SSRC)
	}

	var bins []float64
	var err error
	if c.Spectrum.Demod.Mode() == spectrum.Wideband {
		bins, err = c.Spectrum.Demod.WidebandPoll(c.FrontEnd.Read, binShift)
	} else {
		bins, err = c.Spectrum.Demod.NarrowbandPoll(c.FrontEnd.Read)
	}
	if err != nil {
		return err
	}
	c.Spectrum.Bins = c.Spectrum.Demod.EncodeBytes(bins)
	c.Spectrum.NoiseBW = c.Spectrum.Demod.NoiseBandwidth()
	return nil
}
