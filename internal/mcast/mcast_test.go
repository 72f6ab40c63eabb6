package mcast

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFnv1HashKnownDiffersFromFnv1a(t *testing.T) {
	// FNV-1 multiplies before xoring; confirm the function actually follows
	// that order rather than the more common FNV-1a (xor then multiply) by
	// checking it disagrees with the FNV-1a result for the same input.
	data := []byte("radiod-test")
	fnv1 := fnv1Hash(data)

	fnv1a := uint32(0x811c9dc5)
	for _, b := range data {
		fnv1a ^= uint32(b)
		fnv1a *= 0x01000193
	}

	assert.NotEqual(t, fnv1a, fnv1)
}

func TestDeriveMulticastAddrInAdminScopedRange(t *testing.T) {
	addr := DeriveMulticastAddr("hf-receiver-1")
	ip := net.ParseIP(addr)
	require.NotNil(t, ip)
	assert.Equal(t, byte(239), ip.To4()[0])
}

func TestDeriveMulticastAddrDeterministic(t *testing.T) {
	a := DeriveMulticastAddr("same-host")
	b := DeriveMulticastAddr("same-host")
	assert.Equal(t, a, b)
}

func TestDeriveMulticastAddrAvoidsAliasingRanges(t *testing.T) {
	for _, host := range []string{"a", "bb", "ccc", "radiod", "hf0", "wfm-tuner"} {
		addr := DeriveMulticastAddr(host)
		ip := net.ParseIP(addr).To4()
		require.NotNil(t, ip)
		second := ip[1]
		third := ip[2]
		// The aliasing ranges are 239.0.0/24 and 239.128.0/24: second octet's
		// low 7 bits and all of the third octet both zero.
		aliased := (second&0x7f) == 0 && third == 0
		assert.False(t, aliased, "derived %s for %q falls in an aliased range", addr, host)
	}
}

func TestResolveMulticastAddrFallsBackToDerivation(t *testing.T) {
	addr, err := ResolveMulticastAddr("no-such-hostname-xyz.invalid:5004")
	require.NoError(t, err)
	assert.Equal(t, 5004, addr.Port)
	assert.Equal(t, byte(239), addr.IP.To4()[0])
}

func TestResolveMulticastAddrPassesThroughValidHostPort(t *testing.T) {
	addr, err := ResolveMulticastAddr("239.1.2.3:5004")
	require.NoError(t, err)
	assert.Equal(t, "239.1.2.3", addr.IP.String())
	assert.Equal(t, 5004, addr.Port)
}

func TestDedupAllowsFirstSightingThenSuppresses(t *testing.T) {
	d := NewDedup()
	t0 := time.Unix(0, 0)

	assert.True(t, d.Allow(1, t0))
	assert.False(t, d.Allow(1, t0.Add(10*time.Millisecond)))
	assert.True(t, d.Allow(1, t0.Add(150*time.Millisecond)))
}

func TestDedupAllowsResponseUnderContinuousLoad(t *testing.T) {
	d := NewDedup()
	t0 := time.Unix(0, 0)

	require.True(t, d.Allow(1, t0))
	// Re-poll faster than dedupSilence every tick. Silence is measured from
	// the last allowed response, not the last poll, so a reply still gets
	// through once dedupSilence has passed since the previous one.
	allowedAgain := false
	for i := 1; i <= 30; i++ {
		now := t0.Add(time.Duration(i) * 50 * time.Millisecond)
		if d.Allow(1, now) {
			allowedAgain = true
			break
		}
	}
	assert.True(t, allowedAgain)
}

func TestDedupIndependentPerSSRC(t *testing.T) {
	d := NewDedup()
	t0 := time.Unix(0, 0)
	assert.True(t, d.Allow(1, t0))
	assert.True(t, d.Allow(2, t0))
	assert.False(t, d.Allow(1, t0))
	assert.False(t, d.Allow(2, t0))
}

func TestRegistryObserveFirstSightingIsNewDiscovery(t *testing.T) {
	r := NewRegistry()
	addr := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 5004}
	t0 := time.Unix(0, 0)

	assert.True(t, r.Observe(100, addr, t0))
	assert.False(t, r.Observe(100, addr, t0.Add(time.Second)))
	assert.Len(t, r.Peers(), 1)
}

func TestRegistryPruneRemovesStalePeers(t *testing.T) {
	r := NewRegistry()
	addr := &net.UDPAddr{IP: net.ParseIP("10.0.0.1"), Port: 5004}
	t0 := time.Unix(0, 0)
	r.Observe(100, addr, t0)

	r.Prune(time.Second, t0.Add(500*time.Millisecond))
	assert.Len(t, r.Peers(), 1)

	r.Prune(time.Second, t0.Add(2*time.Second))
	assert.Len(t, r.Peers(), 0)
}

func TestJitteredIntervalWithinHalfWindow(t *testing.T) {
	lo := PollInterval / 2
	hi := PollInterval * 3 / 2
	for i := 0; i < 50; i++ {
		got := JitteredInterval()
		assert.GreaterOrEqual(t, got, lo)
		assert.LessOrEqual(t, got, hi)
	}
}
