// Package ring implements the front-end's mirror-mapped ring buffer: a
// single backing array logically duplicated so that a read window crossing
// the end wraps into contiguous memory, with one producer (the front end)
// and many backward-only readers (demodulator channels), no locking beyond
// a write-index fence.
package ring

import "sync/atomic"

// Buffer is a mirror-mapped ring of complex128 samples. The real
// implementation this is grounded on maps a single allocation twice in
// virtual memory; Go has no portable equivalent of mmap-twice without cgo,
// so Buffer reproduces the same read semantics (any [start, start+n) window
// reads contiguously regardless of wraparound) by allocating 2x capacity
// and mirroring writes into both halves.
type Buffer struct {
	data []complex128
	cap  int
	// writeIdx is the index (mod cap) one past the most recently written
	// sample. Readers only look backward from it, so advancing it is the
	// only fence needed: a reader never observes a write "ahead" of where
	// it started reading.
	writeIdx atomic.Uint64
}

// New allocates a mirror-mapped buffer of the given sample capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]complex128, 2*capacity), cap: capacity}
}

// Cap returns the buffer's logical sample capacity.
func (b *Buffer) Cap() int { return b.cap }

// Write appends samples to the ring, advancing the write pointer. It
// writes into both mirror halves so any subsequent contiguous read that
// spans the wraparound point sees valid data without a separate copy.
func (b *Buffer) Write(samples []complex128) {
	idx := int(b.writeIdx.Load()) % b.cap
	for _, s := range samples {
		b.data[idx] = s
		b.data[idx+b.cap] = s
		idx++
		if idx == b.cap {
			idx = 0
		}
	}
	b.writeIdx.Add(uint64(len(samples)))
}

// WriteIndex returns the current write pointer (total samples ever
// written, not reduced mod capacity), for callers that need to compute a
// read offset relative to "now".
func (b *Buffer) WriteIndex() uint64 {
	return b.writeIdx.Load()
}

// Read returns a contiguous, read-only view of n samples ending
// immediately before the current write pointer (i.e. the most recent n
// samples), or starting backOffset samples further back than that. It
// never copies: the returned slice aliases the mirrored backing array, so
// callers must not retain it across the buffer wrapping past it (one full
// lap, i.e. Cap() further writes).
func (b *Buffer) Read(n, backOffset int) []complex128 {
	if n <= 0 || n > b.cap {
		return nil
	}
	end := int(b.writeIdx.Load()) - backOffset
	start := end - n
	startMod := ((start % b.cap) + b.cap) % b.cap
	return b.data[startMod : startMod+n]
}
