package spectrum

import (
	"fmt"
	"math"
)

// WidebandPoll runs fftAvg overlapped FFTs directly on raw front-end
// samples, accumulating power into the demodulator's bin buffer and
// returning a copy of it. readBack(n, backOffset) must return n
// contiguous samples ending backOffset samples before "now" (the ring
// buffer's Read signature); it is injected so this package never touches
// the ring or front-end packages directly.
//
// binShift is the bin offset implied by the channel's tune frequency
// relative to the front end's center frequency; when the front end is
// real-valued and binShift is negative, every other input sample is
// negated before windowing, flipping the spectrum (the real FFT only
// covers non-negative frequencies, so a negative shift is realized by
// mirroring).
func (d *Demodulator) WidebandPoll(readBack func(n, backOffset int) []complex128, binShift int) ([]float64, error) {
	if d.state != Configured && d.state != Running {
		return nil, fmt.Errorf("spectrum: wideband poll before configure")
	}
	d.state = Running

	flip := d.realFFT != nil && binShift < 0
	step := int(float64(d.fftN) * (1 - d.p.Overlap))
	if step < 1 {
		step = 1
	}

	var gain float64
	if d.realFFT != nil {
		gain = 2 / (float64(d.p.FFTAvg) * float64(d.fftN) * float64(d.fftN))
	} else {
		gain = 1 / (float64(d.p.FFTAvg) * float64(d.fftN) * float64(d.fftN))
	}

	nOutBins := d.fftN/2 + 1
	if d.cmplxFFT != nil {
		nOutBins = d.fftN
	}
	accum := make([]float64, nOutBins)

	for i := 0; i < d.p.FFTAvg; i++ {
		raw := readBack(d.fftN, i*step)
		if raw == nil {
			return nil, fmt.Errorf("spectrum: short read from front end")
		}
		windowed := make([]complex128, d.fftN)
		for k, s := range raw {
			w := float64(d.win[k])
			if flip && k%2 == 1 {
				w = -w
			}
			windowed[k] = s * complex(w, 0)
		}

		var coeffs []complex128
		if d.realFFT != nil {
			seq := make([]float64, d.fftN)
			for k, v := range windowed {
				seq[k] = real(v)
			}
			coeffs = d.realFFT.Coefficients(nil, seq)
		} else {
			coeffs = d.cmplxFFT.Coefficients(nil, windowed)
		}

		for k, c := range coeffs {
			p := (real(c)*real(c) + imag(c)*imag(c)) * gain
			accumulateBin(accum, k, p)
		}
	}

	full := accum
	if d.realFFT != nil {
		// Mirror the non-negative-frequency half into the full fftN-length
		// spectrum the real signal implies (the virtual conjugate spectrum
		// the x2 gain factor already accounts for).
		full = make([]float64, d.fftN)
		copy(full, accum)
		for k := 1; k < d.fftN-nOutBins+1; k++ {
			full[d.fftN-k] = accum[k]
		}
	}

	out := d.copyShifted(full, binShift)
	copy(d.bins, out)
	return out, nil
}

// NarrowbandPoll runs fftAvg overlapped FFTs over the most recent
// fftAvg*fftN samples of a complex baseband ring (already downconverted
// and filtered by an external collaborator), accumulating
// |X[k]|^2/(fftN^2*fftAvg) into the bin buffer.
func (d *Demodulator) NarrowbandPoll(readBack func(n, backOffset int) []complex128) ([]float64, error) {
	if d.state != Configured && d.state != Running {
		return nil, fmt.Errorf("spectrum: narrowband poll before configure")
	}
	d.state = Running

	step := int(float64(d.fftN) * (1 - d.p.Overlap))
	if step < 1 {
		step = 1
	}
	gain := 1 / (float64(d.fftN) * float64(d.fftN) * float64(d.p.FFTAvg))

	accum := make([]float64, d.fftN)
	for i := 0; i < d.p.FFTAvg; i++ {
		raw := readBack(d.fftN, i*step)
		if raw == nil {
			return nil, fmt.Errorf("spectrum: short read from baseband ring")
		}
		windowed := make([]complex128, d.fftN)
		for k, s := range raw {
			windowed[k] = s * complex(float64(d.win[k]), 0)
		}
		coeffs := d.cmplxFFT.Coefficients(nil, windowed)
		for k, c := range coeffs {
			p := (real(c)*real(c) + imag(c)*imag(c)) * gain
			accumulateBin(accum, k, p)
		}
	}

	out := make([]float64, len(d.bins))
	copy(out, d.copyShifted(accum, 0))
	copy(d.bins, out)
	return out, nil
}

// accumulateBin adds p to accum[k], except that a NaN or Inf result is
// dropped and the previous value kept — a pathological FFT output (e.g.
// from a degenerate window) must never corrupt an otherwise good bin.
func accumulateBin(accum []float64, k int, p float64) {
	next := accum[k] + p
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return
	}
	accum[k] = next
}

// copyShifted maps fft-order bins (DC at index 0, positive frequencies
// ascending, then negative frequencies) into the demodulator's output bin
// array, which is bin_count long and already in "shifted" order: DC at
// bin 0, ascending positive frequencies, then negative frequencies
// starting at bin_count/2, honoring the requested shift and silently
// skipping any source bin outside [-Nyquist, +Nyquist).
func (d *Demodulator) copyShifted(src []float64, shift int) []float64 {
	out := make([]float64, len(d.bins))
	n := len(src)
	half := len(out) / 2
	for i := range out {
		freq := i + shift
		if i >= half && half > 0 {
			freq = i - len(out) + shift
		}
		if freq < -(n/2) || freq >= n-n/2 {
			continue
		}
		out[i] = src[((freq%n)+n)%n]
	}
	return out
}

// EncodeBytes quantizes bins (in linear power) to one byte each:
// clamp_[0,255](round((10*log10(P) - base) / step)). The output is
// rotated so index 0 corresponds to the most-negative frequency (bin
// bin_count/2 of the shifted order), walking upward and wrapping through
// DC, matching the wire encoding's bin order.
func (d *Demodulator) EncodeBytes(bins []float64) []byte {
	n := len(bins)
	out := make([]byte, n)
	half := n / 2
	for i := 0; i < n; i++ {
		srcIdx := (half + i) % n
		p := bins[srcIdx]
		var db float64
		if p <= 0 {
			db = math.Inf(-1)
		} else {
			db = 10 * math.Log10(p)
		}
		v := math.Round((db - d.p.EncodeBase) / d.p.EncodeStep)
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		if math.IsNaN(v) {
			v = 0
		}
		out[i] = byte(v)
	}
	return out
}
