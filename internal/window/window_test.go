package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sum(w []float32) float64 {
	var s float64
	for _, v := range w {
		s += float64(v)
	}
	return s
}

func TestAllFamiliesHaveUnitDCGain(t *testing.T) {
	n := 64
	families := []Type{Rectangular, Hann, Hamming, Blackman, ExactBlackman, BlackmanHarris, HFT95, Kaiser, Gaussian}
	for _, fam := range families {
		w := Generate(fam, n, Params{KaiserBeta: 11.0, GaussianAlpha: 2.5})
		assert.Len(t, w, n)
		assert.InDelta(t, float64(n), sum(w), 1e-2, "family %v", fam)
	}
}

func TestTypeFromNameRoundTrip(t *testing.T) {
	for _, name := range []string{"rectangular", "hann", "hamming", "blackman",
		"exact-blackman", "blackman-harris", "hft95", "kaiser", "gaussian"} {
		wt, ok := TypeFromName(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, TypeName(wt))
	}
}

func TestTypeFromNameCaseInsensitive(t *testing.T) {
	wt, ok := TypeFromName("KAISER")
	assert.True(t, ok)
	assert.Equal(t, Kaiser, wt)
}

func TestTypeFromNameUnknown(t *testing.T) {
	_, ok := TypeFromName("nonsense")
	assert.False(t, ok)
}

func TestRectangularIsAllOnes(t *testing.T) {
	w := Generate(Rectangular, 8, Params{})
	for _, v := range w {
		assert.Equal(t, float32(1), v)
	}
}

func TestHannEndpointsNearZero(t *testing.T) {
	w := Generate(Hann, 256, Params{})
	// DFT-periodic truncation means endpoint isn't exactly the symmetric
	// zero, but it stays small relative to the window's peak.
	assert.Less(t, w[0], float32(0.1))
}

func TestKaiserSymmetric(t *testing.T) {
	w := Generate(Kaiser, 65, Params{KaiserBeta: 11.0})
	for i := 0; i < len(w)/2; i++ {
		assert.InDelta(t, float64(w[i]), float64(w[len(w)-1-i]), 1e-4)
	}
}

func TestNoiseBandwidthPositive(t *testing.T) {
	w := Generate(Blackman, 128, Params{})
	nb := NoiseBandwidth(w, 100.0, 128)
	assert.Greater(t, nb, 0.0)
}

func TestSingleSamplePathological(t *testing.T) {
	w := Generate(Hann, 1, Params{})
	assert.Equal(t, []float32{1}, w)
}
