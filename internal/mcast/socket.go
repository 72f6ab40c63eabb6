package mcast

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// Socket wraps a UDP multicast connection used for the status/command
// transport: a single conn shared for both receiving group traffic and
// sending unicast/multicast responses, matching the control-plane's
// "one socket per group" model.
type Socket struct {
	conn *net.UDPConn
	addr *net.UDPAddr
}

// Listen opens addr as a multicast group on iface (nil means the default
// route's interface), with SO_REUSEADDR/SO_REUSEPORT so multiple local
// processes can share the group, IP_MULTICAST_LOOP enabled so local
// senders see their own group's other members, and the loopback interface
// additionally joined for same-host testing.
func Listen(ctx context.Context, addr *net.UDPAddr, iface *net.Interface) (*Socket, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
					sockErr = fmt.Errorf("SO_REUSEPORT: %w", err)
					return
				}
				if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
					sockErr = fmt.Errorf("SO_REUSEADDR: %w", err)
					return
				}
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	pc, err := lc.ListenPacket(ctx, "udp4", addr.String())
	if err != nil {
		return nil, fmt.Errorf("mcast: listen %s: %w", addr, err)
	}
	conn := pc.(*net.UDPConn)
	_ = conn.SetReadBuffer(1024 * 1024)

	p := ipv4.NewPacketConn(conn)
	_ = p.SetMulticastLoopback(true)
	_ = p.SetMulticastTTL(1)
	if err := p.JoinGroup(iface, addr); err != nil {
		return nil, fmt.Errorf("mcast: join group %s: %w", addr, err)
	}
	if loop, err := loopbackInterface(); err == nil && loop != nil {
		_ = p.JoinGroup(loop, addr)
	}

	return &Socket{conn: conn, addr: addr}, nil
}

func loopbackInterface() (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		if ifaces[i].Flags&net.FlagLoopback != 0 {
			return &ifaces[i], nil
		}
	}
	return nil, nil
}

// Group returns the socket's multicast group address.
func (s *Socket) Group() *net.UDPAddr { return s.addr }

// Close releases the underlying connection.
func (s *Socket) Close() error { return s.conn.Close() }

// ReadFrom blocks until a datagram arrives or ctx is done, returning its
// payload and sender. It uses a short read deadline (the status thread's
// "blocks on recvfrom with a 100ms timeout" pacing point) so cancellation
// is observed promptly rather than blocking forever in the kernel.
func (s *Socket) ReadFrom(ctx context.Context, buf []byte) (int, *net.UDPAddr, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return 0, nil, err
		}
		return n, addr, nil
	}
}

// Send transmits buf to the socket's multicast group. The send path is
// non-blocking: an EWOULDBLOCK/EAGAIN from a full send buffer is swallowed
// silently, since status/command delivery is best-effort and idempotent
// (the next poll or update cycle will resend).
func (s *Socket) Send(buf []byte) error {
	_, err := s.conn.WriteToUDP(buf, s.addr)
	if err == nil {
		return nil
	}
	if isWouldBlock(err) {
		return nil
	}
	return fmt.Errorf("mcast: send: %w", err)
}

// SendTo transmits buf to a specific address rather than the socket's own
// group, for a unicast reply to a poll's source address.
func (s *Socket) SendTo(buf []byte, dst *net.UDPAddr) error {
	_, err := s.conn.WriteToUDP(buf, dst)
	if err == nil {
		return nil
	}
	if isWouldBlock(err) {
		return nil
	}
	return fmt.Errorf("mcast: send to %s: %w", dst, err)
}

func isWouldBlock(err error) bool {
	return err == unix.EWOULDBLOCK || err == unix.EAGAIN
}
