// Package frontend owns the single process-wide wideband input ring every
// channel's spectrum path reads from. Actual I/Q acquisition from hardware
// is an external collaborator (out of scope here, per the control plane's
// own boundary); FrontEnd only owns the buffer and the read/write access
// pattern an external capture source and the spectrum demodulators share.
package frontend

import "github.com/cwsl/radiod-engine/internal/ring"

// FrontEnd is a non-owning handle every channel holds a reference to: the
// front end never dereferences a channel, and many channels may read the
// same ring concurrently, each from its own backward-looking window.
type FrontEnd struct {
	Samprate float64
	Complex  bool

	buf *ring.Buffer
}

// New allocates a front end with the given sample rate, sample kind
// (complex baseband vs. real passband), and ring capacity in samples.
func New(samprate float64, complexSamples bool, capacity int) *FrontEnd {
	return &FrontEnd{Samprate: samprate, Complex: complexSamples, buf: ring.New(capacity)}
}

// Write appends samples from the acquisition source, advancing the ring's
// write pointer.
func (f *FrontEnd) Write(samples []complex128) {
	f.buf.Write(samples)
}

// Read returns n samples ending backOffset samples before the current
// write pointer, matching the spectrum package's readBack signature.
func (f *FrontEnd) Read(n, backOffset int) []complex128 {
	return f.buf.Read(n, backOffset)
}

// WriteIndex returns the ring's total sample count written so far.
func (f *FrontEnd) WriteIndex() uint64 {
	return f.buf.WriteIndex()
}

// Cap returns the ring's logical sample capacity.
func (f *FrontEnd) Cap() int {
	return f.buf.Cap()
}
