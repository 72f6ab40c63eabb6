// Package manager owns the set of live channels keyed by SSRC, in the
// mutex-guarded map-of-entities idiom the rest of this codebase's session
// bookkeeping uses, and arbitrates incoming commands against them.
package manager

import (
	"fmt"
	"log"
	"sync"

	"github.com/cwsl/radiod-engine/internal/channel"
	"github.com/cwsl/radiod-engine/internal/env"
	"github.com/cwsl/radiod-engine/internal/frontend"
	"github.com/cwsl/radiod-engine/internal/metrics"
	"github.com/cwsl/radiod-engine/internal/preset"
	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
)

// defaultFrontEndSamprate and defaultFrontEndCapacity describe the shared
// wideband input ring every channel's spectrum path reads from, absent any
// real acquisition source attached via FrontEnd().Write.
const (
	defaultFrontEndSamprate = 24_000_000.0
	defaultFrontEndCapacity = 1 << 20
)

// Manager holds every channel the engine currently serves, addressed by
// its output SSRC, plus the shared environment, preset loader, and front
// end every channel's commands and spectrum path are applied through.
type Manager struct {
	mu       sync.RWMutex
	channels map[uint32]*channel.Channel

	env      env.Environment
	loader   preset.Loader
	m        *metrics.Metrics
	frontEnd *frontend.FrontEnd
}

// New constructs an empty Manager with its own front end ring.
func New(e env.Environment, m *metrics.Metrics) *Manager {
	return &Manager{
		channels: make(map[uint32]*channel.Channel),
		env:      e,
		loader:   preset.Loader{Env: e},
		m:        m,
		frontEnd: frontend.New(defaultFrontEndSamprate, false, defaultFrontEndCapacity),
	}
}

// FrontEnd returns the manager's shared wideband input ring, for an
// acquisition source to feed via Write.
func (mgr *Manager) FrontEnd() *frontend.FrontEnd {
	return mgr.frontEnd
}

// Create adds a new channel with the given SSRC, rejecting a duplicate.
func (mgr *Manager) Create(ssrc uint32) (*channel.Channel, error) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if _, exists := mgr.channels[ssrc]; exists {
		return nil, fmt.Errorf("manager: channel %#x already exists", ssrc)
	}
	c := channel.New(ssrc)
	c.FrontEnd = mgr.frontEnd
	mgr.channels[ssrc] = c
	if mgr.m != nil {
		mgr.m.ChannelCreated()
	}
	return c, nil
}

// Destroy removes a channel, returning false if it was not present.
func (mgr *Manager) Destroy(ssrc uint32) bool {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if _, exists := mgr.channels[ssrc]; !exists {
		return false
	}
	delete(mgr.channels, ssrc)
	if mgr.m != nil {
		mgr.m.ChannelDestroyed()
	}
	return true
}

// Get returns the channel for ssrc, if any.
func (mgr *Manager) Get(ssrc uint32) (*channel.Channel, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	c, ok := mgr.channels[ssrc]
	return c, ok
}

// All returns a snapshot slice of every live channel, for discovery
// responses and periodic status broadcasts.
func (mgr *Manager) All() []*channel.Channel {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	out := make([]*channel.Channel, 0, len(mgr.channels))
	for _, c := range mgr.channels {
		out = append(out, c)
	}
	return out
}

// Dispatch decodes a command message and queues it on the addressed
// channel's single-slot mailbox. A command with no matching channel, or
// with no OUTPUT_SSRC field, is logged and dropped rather than treated as
// fatal, since a stray or stale command from another instance's group
// must not disturb this process.
func (mgr *Manager) Dispatch(msg wire.Message) {
	if msg.Kind != wire.Cmd {
		return
	}
	ssrc, ok := wire.OutputSSRCOf(msg.Fields)
	if !ok {
		log.Printf("manager: command with no OUTPUT_SSRC field dropped")
		return
	}
	c, ok := mgr.Get(ssrc)
	if !ok {
		log.Printf("manager: command for unknown channel %#x dropped", ssrc)
		return
	}
	c.SetPendingCommand(encodeFields(msg.Fields))
}

// encodeFields re-serializes a decoded field list back into its wire form,
// since the channel's pending-command slot stores raw bytes (the same
// representation the status thread will eventually re-decode when it
// applies the command), keeping the Manager/Channel boundary byte-shaped
// rather than coupled to the wire package's Field type.
func encodeFields(fields []tlv.Field) []byte {
	var buf []byte
	for _, f := range fields {
		buf = tlv.EncodeBytes(buf, f.Type, f.Value)
	}
	return buf
}

// ApplyPending swaps ssrc's pending command, if any, decodes it, and
// applies it directly onto the channel: a PRESET field (if present) loads
// a named dictionary section first, then every other recognized field in
// the same command overrides the channel's typed parameters directly,
// matching the control plane's actual command-arbitration semantics. It
// returns false if there was nothing pending.
func (mgr *Manager) ApplyPending(ssrc uint32, dict preset.Dictionary) (bool, error) {
	c, ok := mgr.Get(ssrc)
	if !ok {
		return false, fmt.Errorf("manager: no such channel %#x", ssrc)
	}
	raw := c.SwapPendingCommand()
	if raw == nil {
		return false, nil
	}
	fields := tlv.Decode(raw)
	if err := applyDecodedCommand(c, fields, mgr.loader, dict); err != nil {
		return true, &channel.ApplyError{SSRC: ssrc, Err: err}
	}
	return true, nil
}
