package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/radiod-engine/internal/tlv"
)

func buildPoll(ssrc, tag uint32) []byte {
	buf := EncodeHeader(Cmd)
	buf = tlv.EncodeUint32(buf, OutputSSRC, ssrc)
	buf = tlv.EncodeUint32(buf, CommandTag, tag)
	buf = tlv.EncodeEOL(buf)
	return buf
}

func TestForUsExactMatch(t *testing.T) {
	msg, ok := Decode(buildPoll(0x2A, 0x12345678))
	require.True(t, ok)
	assert.True(t, ForUs(msg.Fields, 0x2A))
	assert.False(t, ForUs(msg.Fields, 0x2B))
}

func TestForUsNoOutputSSRCAlwaysFalseForNonzero(t *testing.T) {
	buf := EncodeHeader(Status)
	buf = tlv.EncodeUint32(buf, CommandTag, 7)
	buf = tlv.EncodeEOL(buf)
	msg, ok := Decode(buf)
	require.True(t, ok)
	assert.False(t, ForUs(msg.Fields, 1))
	assert.False(t, ForUs(msg.Fields, 0xFFFFFFFF))
}

func TestCommandTagEcho(t *testing.T) {
	msg, ok := Decode(buildPoll(1, 0xDEADBEEF))
	require.True(t, ok)
	tag, ok := CommandTagOf(msg.Fields)
	require.True(t, ok)
	assert.Equal(t, uint32(0xDEADBEEF), tag)
}

func TestAddressedToBroadcastAndExact(t *testing.T) {
	assert.True(t, AddressedTo(BroadcastSSRC, 0x10))
	assert.True(t, AddressedTo(0x10, 0x10))
	assert.False(t, AddressedTo(0x11, 0x10))
}

func TestDecodeEmptyBuffer(t *testing.T) {
	_, ok := Decode(nil)
	assert.False(t, ok)
}

func TestDiscoveryThreeChannelsDeduplicatedBySSRC(t *testing.T) {
	ssrcs := []uint32{0x01, 0x02, 0x10}
	var responses []Message
	for _, s := range ssrcs {
		buf := EncodeHeader(Status)
		buf = tlv.EncodeUint32(buf, OutputSSRC, s)
		buf = tlv.EncodeUint32(buf, CommandTag, 0x12345678)
		buf = tlv.EncodeEOL(buf)
		// duplicate response, simulating a retry, must not grow the set
		buf2 := make([]byte, len(buf))
		copy(buf2, buf)
		for _, raw := range [][]byte{buf, buf2} {
			msg, ok := Decode(raw)
			require.True(t, ok)
			responses = append(responses, msg)
		}
	}

	seen := map[uint32]bool{}
	for _, msg := range responses {
		ssrc, ok := OutputSSRCOf(msg.Fields)
		require.True(t, ok)
		seen[ssrc] = true
	}
	assert.Len(t, seen, 3)
	for _, s := range ssrcs {
		assert.True(t, seen[s])
	}
}
