// Package channel owns the per-channel parameter struct, the demodulator
// control cycle, and command arbitration described by the control-plane
// spec: a single-slot "latest command wins" mailbox guarded by a per-channel
// mutex, applied outside the lock, with a restart_needed escape hatch for
// structural changes.
//
// The control cycle (receive_block -> drain_pending_command -> apply ->
// step_dsp -> maybe_respond) is split across two layers rather than one
// method, since receive and respond are transport concerns: cmd/radiod-engine
// runs receive_block (its multicast listener callback) and
// drain_pending_command (manager.ApplyPending's SwapPendingCommand), this
// package runs apply (ApplyFields, plus preset.Loader.Apply for a PRESET
// field) and step_dsp (PollSpectrum, a no-op for non-spectrum channels), and
// cmd/radiod-engine runs maybe_respond (EncodeStatus, sent only on a poll or
// the periodic broadcast tick). RestartNeeded is the cycle's
// structural-change edge: ApplyFields sets it when a command changes demod
// type, output sample rate, or spectrum geometry.
package channel

import (
	"fmt"
	"math"
	"net"
	"strings"
	"sync"

	"github.com/cwsl/radiod-engine/internal/frontend"
)

// DemodType selects which demod-specific state in a Channel is valid.
type DemodType int

const (
	Linear DemodType = iota
	FM
	WFM
	Spect
	Spect2
)

var demodNames = [...]string{"linear", "fm", "wfm", "spectrum", "spectrum2"}

// DemodTypeName returns the canonical name for t, or "" if t is out of range.
func DemodTypeName(t DemodType) string {
	if int(t) < 0 || int(t) >= len(demodNames) {
		return ""
	}
	return demodNames[t]
}

// DemodTypeFromName matches a demod name case-insensitively against the
// fixed name table, the same strncasecmp convention the original loader
// uses. Returns ok=false for no match.
func DemodTypeFromName(name string) (DemodType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range demodNames {
		if n == name {
			return DemodType(i), true
		}
	}
	return 0, false
}

// Tuning is the channel's frequency state.
type Tuning struct {
	Freq          float64 // carrier frequency, Hz
	SecondLO      float64
	Shift         float64 // post-detection frequency shift, Hz
	DopplerOffset float64
	DopplerRate   float64
}

// Filter is the pre-detection filter's edges and FFT-domain shift state.
// MinIF/MaxIF always satisfy MinIF <= MaxIF; SetEdges enforces this by
// swapping if the caller passes them reversed.
type Filter struct {
	MinIF, MaxIF float64
	KaiserBeta   float64
	BinShift     int
	Remainder    float64
	Beam         bool
	AWeight      complex128
	BWeight      complex128
}

// SetEdges assigns the pre-detection filter's low/high edges, re-ordering
// them if min > max so the MinIF <= MaxIF invariant always holds.
func (f *Filter) SetEdges(min, max float64) {
	if min > max {
		min, max = max, min
	}
	f.MinIF, f.MaxIF = min, max
}

// LinearState is the demod-specific state for the LINEAR demodulator.
type LinearState struct {
	AGCEnable    bool
	Threshold    float64 // voltage ratio, <= 1
	RecoveryRate float64 // voltage ratio per block
	Hangtime     float64 // seconds
	Envelope     bool
	DCTau        float64 // IIR pole
}

// PLLState is the phase-locked-loop state shared by coherent demod modes.
type PLLState struct {
	Enable bool
	Square bool // square=true implies Enable=true
	LoopBW float64
	Phase  float64
	Locked bool
}

// FMState is the demod-specific state for FM/WFM.
type FMState struct {
	SquelchOpen      float64 // power ratio
	SquelchClose     float64 // power ratio
	SquelchTail      int
	Deviation        float64
	DeemphRate       float64 // IIR pole
	DeemphGain       float64 // voltage ratio
	ToneFreq         float64 // Hz, <= 3000
	ThresholdExtend  bool
	SNRSquelchEnable bool
}

// OpusParams carries the Opus codec's tunables; actual encoding is an
// external collaborator (Non-goal), so this struct only holds and
// validates parameters.
type OpusParams struct {
	BitRate     int // bit/s, <= 510000
	DTX         bool
	Application string
	FEC         int // percent, 0..100
	Signal      string
}

// Output is the channel's audio output state.
type Output struct {
	SampRate    int
	Channels    int // 1 or 2
	Encoding    string
	SSRC        uint32 // RTP SSRC, equal to the channel's own SSRC
	Seq         uint16
	Timestamp   uint32
	Dest        *net.UDPAddr
	PacketCount uint64
	Gain        float64 // voltage ratio, unrestricted sign
	Headroom    float64 // voltage ratio, always <= 1
	TTL         int
	Minpacket   int // jitter buffer depth, 0..4
	Pacing      bool
	Opus        OpusParams
}

// StatusIO is the channel's poll/response bookkeeping. PendingCommand is
// the single-slot mailbox: SetPendingCommand replaces whatever is there
// (latest wins); SwapPendingCommand atomically takes and clears it.
type StatusIO struct {
	PacketsIn           uint64
	PacketsOut          uint64
	BlocksSinceLastPoll int
	OutputInterval      int // blocks between unsolicited responses
}

// Channel is one demodulating channel: the addressable unit of the control
// protocol. SSRC is immutable for the channel's lifetime; everything else
// is guarded by mu, which is held only briefly around the pending-command
// swap and around response/parameter serialization, per the concurrency
// model.
type Channel struct {
	SSRC      uint32
	DemodType DemodType

	Tune     Tuning
	Filter   Filter
	Linear   LinearState
	PLL      PLLState
	FM       FMState
	Output   Output
	Status   StatusIO
	Spectrum SpectrumState

	// FrontEnd is a non-owning handle to the process-wide wideband input
	// ring (§9's "channels point back at the shared front-end" note); it
	// is nil until the manager attaches it at channel creation, and the
	// channel never mutates it beyond reading.
	FrontEnd *frontend.FrontEnd

	Prio            int
	Filter2Blocking int // blocks, 0..10
	Conj            bool

	// RestartNeeded is set by ApplyFields when a structural parameter changed;
	// the demodulator loop observes it, tears down its FFT plan/buffers,
	// and re-enters setup.
	RestartNeeded bool

	mu      sync.Mutex
	pending []byte
}

// New creates a channel with the demod-specific defaults the original
// loader sets before any preset is applied.
func New(ssrc uint32) *Channel {
	return &Channel{
		SSRC:      ssrc,
		DemodType: Linear,
		Output: Output{
			SampRate: 8000,
			Channels: 1,
			Encoding: "s16be",
			SSRC:     ssrc,
			TTL:      1,
			Headroom: 1.0,
		},
		Linear: LinearState{
			AGCEnable:    true,
			RecoveryRate: 1.0,
			Hangtime:     1.1,
			Threshold:    1.0,
		},
		Status: StatusIO{OutputInterval: 25},
	}
}

// SetPendingCommand replaces the channel's single-slot pending command
// (latest wins), guarded by mu.
func (c *Channel) SetPendingCommand(cmd []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = cmd
}

// SwapPendingCommand atomically takes and clears the pending command slot.
// The caller applies the returned bytes outside the lock, per the
// concurrency model's command-arbitration rule.
func (c *Channel) SwapPendingCommand() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmd := c.pending
	c.pending = nil
	return cmd
}

// Lock/Unlock expose the channel's own mutex to callers (e.g. the status
// responder) that need to serialize a consistent snapshot of output-visible
// fields alongside a pending-command swap.
func (c *Channel) Lock()   { c.mu.Lock() }
func (c *Channel) Unlock() { c.mu.Unlock() }

// ConsumeRestartNeeded reports whether a structural change (demod type,
// output sample rate, or spectrum geometry) is pending since the last call,
// clearing the flag. The spectrum demodulator rebuild itself already
// happens inside ApplyFields; this is the cycle's restart_needed edge for a
// caller that needs to react to the change (e.g. log it, or reset any
// other per-channel DSP state keyed off it).
func (c *Channel) ConsumeRestartNeeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	needed := c.RestartNeeded
	c.RestartNeeded = false
	return needed
}

// BeamWeight computes the complex weight for an amplitude/phase pair using
// the same unit-magnitude-times-amplitude convention as the original
// csincospi(phase/180) helper: amplitude scales a unit phasor at phase
// degrees.
func BeamWeight(amp, phaseDeg float64) complex128 {
	rad := phaseDeg * math.Pi / 180
	return complex(amp, 0) * complex(math.Cos(rad), math.Sin(rad))
}

// ApplyError wraps a failure encountered while applying a decoded command,
// identifying which channel it happened on.
type ApplyError struct {
	SSRC uint32
	Err  error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("channel %#x: %v", e.SSRC, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }
