package mcast

import (
	"math/rand"
	"net"
	"time"
)

// PollInterval is the nominal spacing between unsolicited status
// broadcasts; actual sends are jittered by +/- half this window so that
// many instances on one group don't beat in lockstep (the same spreading
// IGMP membership reports use).
const PollInterval = 1 * time.Second

// JitteredInterval returns PollInterval randomized by +/- half its width.
func JitteredInterval() time.Duration {
	half := PollInterval / 2
	offset := time.Duration(rand.Int63n(int64(PollInterval))) - half
	return PollInterval + offset
}

// dedupSilence is how long a given SSRC's response is suppressed after one
// was already sent, and dedupCap is the longest any single SSRC can be
// held silent regardless of how often it's being asked about again.
const (
	dedupSilence = 100 * time.Millisecond
	dedupCap     = 1 * time.Second
)

// Dedup suppresses repeated discovery responses for the same SSRC within
// a short window, so a burst of polls from several clients produces one
// reply instead of one per poll. It is not safe for concurrent use.
type Dedup struct {
	last map[uint32]time.Time
	held map[uint32]time.Time
}

// NewDedup constructs an empty Dedup tracker.
func NewDedup() *Dedup {
	return &Dedup{last: make(map[uint32]time.Time), held: make(map[uint32]time.Time)}
}

// Allow reports whether a response for ssrc should be sent now, given now
// as the current time. A response is allowed the first time an SSRC is
// seen, or once dedupSilence has elapsed since its last allowed response,
// or unconditionally once dedupCap has elapsed since it was first held
// back (so a continuously-busy SSRC is never silenced forever).
func (d *Dedup) Allow(ssrc uint32, now time.Time) bool {
	last, seen := d.last[ssrc]
	if !seen {
		d.last[ssrc] = now
		d.held[ssrc] = now
		return true
	}
	since := now.Sub(last)
	heldSince := now.Sub(d.held[ssrc])
	if since >= dedupSilence || heldSince >= dedupCap {
		d.last[ssrc] = now
		d.held[ssrc] = now
		return true
	}
	return false
}

// Reset clears all tracked SSRC state, e.g. after a channel teardown.
func (d *Dedup) Reset() {
	d.last = make(map[uint32]time.Time)
	d.held = make(map[uint32]time.Time)
}

// Peer records a discovered channel's SSRC and the address it last
// responded from, for an enumerate/discovery client.
type Peer struct {
	SSRC     uint32
	Addr     *net.UDPAddr
	LastSeen time.Time
}

// Registry accumulates discovered peers by SSRC, deduplicating repeat
// sightings of the same channel across multiple poll rounds.
type Registry struct {
	peers map[uint32]*Peer
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{peers: make(map[uint32]*Peer)}
}

// Observe records a sighting of ssrc at addr, returning true the first
// time this SSRC is seen (a new discovery) and false on every subsequent
// sighting (a refresh).
func (r *Registry) Observe(ssrc uint32, addr *net.UDPAddr, now time.Time) bool {
	p, ok := r.peers[ssrc]
	if !ok {
		r.peers[ssrc] = &Peer{SSRC: ssrc, Addr: addr, LastSeen: now}
		return true
	}
	p.Addr = addr
	p.LastSeen = now
	return false
}

// Peers returns a snapshot of all currently known peers.
func (r *Registry) Peers() []Peer {
	out := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		out = append(out, *p)
	}
	return out
}

// Prune removes peers not observed within maxAge of now, for clearing
// channels that have gone away without an explicit teardown message.
func (r *Registry) Prune(maxAge time.Duration, now time.Time) {
	for ssrc, p := range r.peers {
		if now.Sub(p.LastSeen) > maxAge {
			delete(r.peers, ssrc)
		}
	}
}
