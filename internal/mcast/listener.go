package mcast

import (
	"context"
	"log"
	"net"

	"github.com/cwsl/radiod-engine/internal/wire"
)

// Handler processes one decoded message received on the group, along with
// the UDP address it arrived from (needed to unicast a reply to a poll).
type Handler func(msg wire.Message, from *net.UDPAddr)

// Listener runs the status thread's receive loop: read a datagram, decode
// it as a wire message, and dispatch it to Handle. It owns no state about
// channels or presets; callers wire a Handler that knows how to respond.
type Listener struct {
	sock    *Socket
	Handle  Handler
	MaxSize int
}

// NewListener wraps an already-open Socket. MaxSize bounds the receive
// buffer; 0 selects a generous default sized for a full discovery
// response with many fields.
func NewListener(sock *Socket, handle Handler) *Listener {
	return &Listener{sock: sock, Handle: handle, MaxSize: 65536}
}

// Run reads and dispatches messages until ctx is canceled. A decode
// failure is logged and skipped rather than treated as fatal, since a
// malformed or truncated datagram from one misbehaving peer must not
// bring down the whole listener.
func (l *Listener) Run(ctx context.Context) error {
	size := l.MaxSize
	if size <= 0 {
		size = 65536
	}
	buf := make([]byte, size)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, from, err := l.sock.ReadFrom(ctx, buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("mcast: read error: %v", err)
			continue
		}
		msg, ok := wire.Decode(buf[:n])
		if !ok {
			log.Printf("mcast: dropped undecodable %d-byte packet from %s", n, from)
			continue
		}
		if l.Handle != nil {
			l.Handle(msg, from)
		}
	}
}

// Send broadcasts buf to the listener's own group.
func (l *Listener) Send(buf []byte) error { return l.sock.Send(buf) }

// SendTo unicasts buf to a specific address, for replying to a poll.
func (l *Listener) SendTo(buf []byte, dst *net.UDPAddr) error { return l.sock.SendTo(buf, dst) }

// Close releases the underlying socket.
func (l *Listener) Close() error { return l.sock.Close() }
