package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwsl/radiod-engine/internal/window"
)

func TestSelectModeCrossover(t *testing.T) {
	assert.Equal(t, Wideband, SelectMode(500, DefaultCrossover))
	assert.Equal(t, Narrowband, SelectMode(50, DefaultCrossover))
}

func TestGoodFFTSize(t *testing.T) {
	assert.True(t, GoodFFTSize(1024))    // 2^10
	assert.True(t, GoodFFTSize(2*3*5*7)) // 210
	assert.False(t, GoodFFTSize(22))     // has factor 11
	assert.False(t, GoodFFTSize(0))
}

func TestNextGoodFFTSize(t *testing.T) {
	assert.Equal(t, 1024, NextGoodFFTSize(1000))
}

func TestNarrowbandFFTSizeDivisibility(t *testing.T) {
	n, err := NarrowbandFFTSize(64, 10, 50)
	require.NoError(t, err)
	assert.True(t, GoodFFTSize(n))
	out := float64(n) * 10
	rem := math.Mod(out, 50)
	assert.True(t, rem < 1e-6 || rem > 50-1e-6)
}

// sinusoid generates a complex exponential at normalized frequency f
// (cycles/sample) of the given length.
func sinusoid(n int, f float64, amp float64) []complex128 {
	s := make([]complex128, n)
	for i := range s {
		phase := 2 * math.Pi * f * float64(i)
		s[i] = complex(amp*math.Cos(phase), amp*math.Sin(phase))
	}
	return s
}

func TestNarrowbandGainLawSinusoidAtBinCenter(t *testing.T) {
	const fftN = 64
	d := &Demodulator{
		p: Params{
			FFTAvg:   1,
			Overlap:  1,
			BinCount: fftN,
		},
		state: Configured,
		bins:  make([]float64, fftN),
	}
	d.fftN = fftN
	d.win = window.Generate(window.Rectangular, fftN, window.Params{})
	d.cmplxFFT = fourier.NewCmplxFFT(fftN)

	binIdx := 5
	amp := 2.0
	samples := sinusoid(fftN, float64(binIdx)/float64(fftN), amp)

	readBack := func(n, backOffset int) []complex128 {
		require.Equal(t, fftN, n)
		return samples
	}

	bins, err := d.NarrowbandPoll(readBack)
	require.NoError(t, err)

	// Power at bin 5 should be (amp*fftN)^2 * gain = (amp*fftN)^2 / fftN^2 = amp^2
	expectedDB := 10 * math.Log10(amp*amp)
	gotDB := 10 * math.Log10(bins[binIdx])
	assert.InDelta(t, expectedDB, gotDB, 0.1)
}

func TestNarrowbandCoverageLawDCAndWrap(t *testing.T) {
	const fftN = 32
	d := New(Params{FFTAvg: 1, Overlap: 1, BinCount: fftN, RBW: 10, SamprateBase: 50, WindowType: window.Rectangular})
	require.NoError(t, d.Configure())

	samples := sinusoid(d.FFTSize(), 0, 1.0) // pure DC, sized to the actual configured FFT
	readBack := func(n, backOffset int) []complex128 { return samples }

	bins, err := d.NarrowbandPoll(readBack)
	require.NoError(t, err)
	require.Len(t, bins, fftN)

	// DC should be the dominant bin
	maxIdx := 0
	for i, v := range bins {
		if v > bins[maxIdx] {
			maxIdx = i
		}
	}
	assert.Equal(t, 0, maxIdx)
}

func TestAccumulateBinDropsNaNAndInf(t *testing.T) {
	accum := []float64{5.0}
	accumulateBin(accum, 0, math.NaN())
	assert.Equal(t, 5.0, accum[0])
	accumulateBin(accum, 0, math.Inf(1))
	assert.Equal(t, 5.0, accum[0])
	accumulateBin(accum, 0, 1.0)
	assert.Equal(t, 6.0, accum[0])
}

func TestEncodeBytesClampsToRange(t *testing.T) {
	d := New(Params{BinCount: 4, EncodeBase: -150, EncodeStep: 0.5})
	bins := []float64{1e-30, 1, 1e30, 0}
	out := d.EncodeBytes(bins)
	require.Len(t, out, 4)
	for _, b := range out {
		assert.GreaterOrEqual(t, int(b), 0)
		assert.LessOrEqual(t, int(b), 255)
	}
}

func TestConfigureWidebandRealFrontend(t *testing.T) {
	d := New(Params{
		FrontendSamprate: 1_000_000,
		FrontendComplex:  false,
		RBW:              1000, // > default crossover -> wideband
		BinCount:         64,
		FFTAvg:           1,
		WindowType:       window.Hann,
	})
	require.NoError(t, d.Configure())
	assert.Equal(t, Wideband, d.Mode())
	assert.Equal(t, Configured, d.State())
	assert.Equal(t, 1000, d.FFTSize())
}
