package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextOutputPacketAdvancesSequenceAndTimestamp(t *testing.T) {
	c := New(0xcafe)
	c.Output.Seq = 10
	c.Output.Timestamp = 1000

	p1 := c.NextOutputPacket(make([]byte, 160), 160)
	assert.Equal(t, uint16(10), p1.SequenceNumber)
	assert.Equal(t, uint32(1000), p1.Timestamp)
	assert.Equal(t, uint32(0xcafe), p1.SSRC)

	p2 := c.NextOutputPacket(make([]byte, 160), 160)
	assert.Equal(t, uint16(11), p2.SequenceNumber)
	assert.Equal(t, uint32(1160), p2.Timestamp)
}

func TestNextOutputPacketTracksPacketCount(t *testing.T) {
	c := New(1)
	c.NextOutputPacket(nil, 160)
	c.NextOutputPacket(nil, 160)
	assert.Equal(t, uint64(2), c.Output.PacketCount)
}
