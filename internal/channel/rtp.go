package channel

import "github.com/pion/rtp"

// NextOutputPacket builds the next RTP packet for this channel's audio
// output stream: its own SSRC, the next sequence number, and a timestamp
// advanced by the payload's sample count, mirroring the
// Unmarshal/SSRC-route shape audio reception uses on the receive side.
func (c *Channel) NextOutputPacket(payload []byte, samplesPerPacket uint32) *rtp.Packet {
	c.mu.Lock()
	defer c.mu.Unlock()

	pkt := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    96,
			SequenceNumber: c.Output.Seq,
			Timestamp:      c.Output.Timestamp,
			SSRC:           c.Output.SSRC,
		},
		Payload: payload,
	}

	c.Output.Seq++
	c.Output.Timestamp += samplesPerPacket
	c.Output.PacketCount++

	return pkt
}
