// Package spectrum implements the adaptive wideband/narrowband spectrum
// demodulator: mode selection by RBW crossover, FFT-size search, windowing,
// gain-normalized power accumulation, and the compact one-byte-per-bin
// output encoding.
package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwsl/radiod-engine/internal/window"
)

// Mode selects which FFT path produces the spectrum.
type Mode int

const (
	Narrowband Mode = iota
	Wideband
)

// State is the demodulator's lifecycle state.
type State int

const (
	Initial State = iota
	Configured
	Running
	Reconfiguring
	Terminal
)

// DefaultCrossover is the RBW threshold (Hz) above which the wideband path
// runs, matching the original's DEFAULT_CROSSOVER.
const DefaultCrossover = 200.0

// DefaultMargin is the guard band (Hz) added around the requested coverage
// when sizing the narrowband FFT and filter edges.
const DefaultMargin = 400.0

// Params configures a Demodulator. FrontendComplex selects the wideband
// real->complex vs complex->complex path; it has no effect in narrowband
// mode, which always downconverts to a complex baseband first.
type Params struct {
	FrontendSamprate float64
	FrontendComplex  bool
	SamprateBase     float64 // lcm(blockrate, L*blockrate/N); narrowband output rates are multiples of this
	RBW              float64
	BinCount         int
	Crossover        float64
	WindowType       window.Type
	WindowParams     window.Params
	FFTAvg           int
	Overlap          float64 // (0,1]; each averaged window starts fft_n*(1-Overlap) samples (at least 1) before the previous one
	EncodeBase       float64 // dB floor for byte encoding, default -150
	EncodeStep       float64 // dB/LSB for byte encoding, default 0.5
}

// Demodulator runs one channel's spectrum analysis. It holds no socket or
// channel reference; callers feed it sample windows and read back power
// bins, keeping it testable in isolation.
type Demodulator struct {
	p     Params
	state State
	mode  Mode

	fftN    int
	realFFT *fourier.FFT
	cmplxFFT *fourier.CmplxFFT
	win     []float32
	noiseBW float64

	bins []float64 // length p.BinCount, shifted order (most-negative-first after EncodeBytes rotation)
}

// New constructs a Demodulator in the Initial state; call Configure before
// the first poll.
func New(p Params) *Demodulator {
	if p.Crossover == 0 {
		p.Crossover = DefaultCrossover
	}
	if p.EncodeStep == 0 {
		p.EncodeStep = 0.5
	}
	if p.EncodeBase == 0 {
		p.EncodeBase = -150
	}
	if p.Overlap <= 0 || p.Overlap > 1 {
		p.Overlap = 1
	}
	if p.FFTAvg <= 0 {
		p.FFTAvg = 1
	}
	return &Demodulator{p: p, state: Initial, bins: make([]float64, p.BinCount)}
}

// SelectMode returns Wideband if rbw exceeds crossover, else Narrowband.
func SelectMode(rbw, crossover float64) Mode {
	if rbw > crossover {
		return Wideband
	}
	return Narrowband
}

// State returns the demodulator's current lifecycle state.
func (d *Demodulator) State() State { return d.state }

// Mode returns the path the demodulator is currently configured for.
func (d *Demodulator) Mode() Mode { return d.mode }

// FFTSize returns the FFT length the demodulator is currently configured
// to use (0 before Configure).
func (d *Demodulator) FFTSize() int { return d.fftN }

// NoiseBandwidth returns the per-bin effective noise bandwidth of the
// currently configured window.
func (d *Demodulator) NoiseBandwidth() float64 { return d.noiseBW }

// Reconfigure marks the demodulator for a full teardown/rebuild on the
// next Configure call: any of {RBW, bin_count, crossover, window type,
// shape} changing in a structural way routes here.
func (d *Demodulator) Reconfigure(p Params) {
	d.p = New(p).p
	d.state = Reconfiguring
	d.fftN = 0
	d.realFFT = nil
	d.cmplxFFT = nil
	d.win = nil
	if len(d.bins) != p.BinCount {
		d.bins = make([]float64, p.BinCount)
	}
}

// Close transitions the demodulator to Terminal, releasing its plan,
// window and bin buffer.
func (d *Demodulator) Close() {
	d.state = Terminal
	d.realFFT = nil
	d.cmplxFFT = nil
	d.win = nil
	d.bins = nil
}

// Configure (re)builds the FFT plan and window for the demodulator's
// current parameters, selecting wideband or narrowband mode via the
// crossover rule, then transitions Initial/Reconfiguring -> Configured.
func (d *Demodulator) Configure() error {
	d.mode = SelectMode(d.p.RBW, d.p.Crossover)

	switch d.mode {
	case Wideband:
		d.fftN = int(math.Round(d.p.FrontendSamprate / d.p.RBW))
		if d.fftN < 2 {
			return fmt.Errorf("spectrum: wideband fft size %d too small for rbw %g", d.fftN, d.p.RBW)
		}
		if d.p.FrontendComplex {
			d.cmplxFFT = fourier.NewCmplxFFT(d.fftN)
			d.realFFT = nil
		} else {
			d.realFFT = fourier.NewFFT(d.fftN)
			d.cmplxFFT = nil
		}
	case Narrowband:
		n, err := NarrowbandFFTSize(d.p.BinCount, d.p.RBW, d.p.SamprateBase)
		if err != nil {
			return err
		}
		d.fftN = n
		d.cmplxFFT = fourier.NewCmplxFFT(d.fftN)
		d.realFFT = nil
	}

	d.win = window.Generate(d.p.WindowType, d.fftN, d.p.WindowParams)
	d.noiseBW = window.NoiseBandwidth(d.win, d.p.RBW, d.fftN)
	d.state = Configured
	return nil
}

// GoodFFTSize reports whether n factors entirely into the small primes
// (2, 3, 5, 7) the FFT planner favors.
func GoodFFTSize(n int) bool {
	if n <= 0 {
		return false
	}
	for _, p := range [...]int{2, 3, 5, 7} {
		for n%p == 0 {
			n /= p
		}
	}
	return n == 1
}

// NextGoodFFTSize returns the smallest good FFT size >= n.
func NextGoodFFTSize(n int) int {
	if n < 1 {
		n = 1
	}
	for !GoodFFTSize(n) {
		n++
	}
	return n
}

// NarrowbandFFTSize searches upward from a size covering bin_count plus a
// default margin at the given rbw for the smallest size that is both a
// good FFT size and makes n*rbw an exact multiple of samprateBase (the
// narrowband output sample rate must itself be an integer multiple of the
// shared base rate).
func NarrowbandFFTSize(binCount int, rbw, samprateBase float64) (int, error) {
	if rbw <= 0 || samprateBase <= 0 {
		return 0, fmt.Errorf("spectrum: invalid narrowband sizing inputs rbw=%g samprateBase=%g", rbw, samprateBase)
	}
	n := int(math.Ceil(float64(binCount) + DefaultMargin/rbw))
	if n < 1 {
		n = 1
	}
	for i := 0; i < 1_000_000; i++ {
		if GoodFFTSize(n) {
			out := float64(n) * rbw
			if math.Mod(out, samprateBase) < 1e-6 || math.Mod(out, samprateBase) > samprateBase-1e-6 {
				return n, nil
			}
		}
		n++
	}
	return 0, fmt.Errorf("spectrum: no narrowband fft size found for rbw=%g", rbw)
}
