// Package mcast implements the UDP multicast status/command transport:
// socket setup, multicast-address derivation from a hostname, poll/response
// delivery, and discovery/enumeration with response deduplication.
package mcast

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// fnv1Hash is the FNV-1 (not FNV-1a) hash: multiply-then-xor, ported
// directly from the multicast-address-derivation helper it backs.
func fnv1Hash(data []byte) uint32 {
	hash := uint32(0x811c9dc5)
	for _, b := range data {
		hash *= 0x01000193
		hash ^= uint32(b)
	}
	return hash
}

// DeriveMulticastAddr derives an administratively-scoped multicast IPv4
// address (239.0.0.0/8) from a hostname via FNV-1, avoiding the
// 239.0.0.0/24 and 239.128.0.0/24 ranges that alias onto the same Ethernet
// multicast MAC address regardless of the rest of the IP.
func DeriveMulticastAddr(hostname string) string {
	hash := fnv1Hash([]byte(hostname))
	addr := (uint32(239) << 24) | (hash & 0xffffff)

	if addr&0x007fff00 == 0 {
		addr |= (addr & 0xff) << 8
	}
	if addr&0x007fff00 == 0 {
		addr |= 0x00100000
	}

	return fmt.Sprintf("%d.%d.%d.%d",
		(addr>>24)&0xff, (addr>>16)&0xff, (addr>>8)&0xff, addr&0xff)
}

// ResolveMulticastAddr resolves addrStr as a standard "host:port" UDP
// address; if DNS resolution fails, it falls back to a hash-derived
// multicast address for the hostname part, so a channel name or radiod
// instance name can be used directly as a multicast group identifier
// without a DNS entry.
func ResolveMulticastAddr(addrStr string) (*net.UDPAddr, error) {
	if addr, err := net.ResolveUDPAddr("udp", addrStr); err == nil {
		return addr, nil
	}

	parts := strings.SplitN(addrStr, ":", 2)
	hostname := parts[0]
	port := "0"
	if len(parts) > 1 {
		port = parts[1]
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("mcast: invalid port in address %q: %w", addrStr, err)
	}

	derived := fmt.Sprintf("%s:%d", DeriveMulticastAddr(hostname), portNum)
	return net.ResolveUDPAddr("udp", derived)
}
