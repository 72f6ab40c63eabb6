package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/radiod-engine/internal/channel"
	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
)

func TestEncodeStatusIncludesSSRCAndFrequency(t *testing.T) {
	c := channel.New(0xabcd)
	c.Tune.Freq = 14074000

	body := EncodeStatus(c, 0)
	fields := tlv.Decode(body)

	ssrc, ok := wire.OutputSSRCOf(fields)
	require.True(t, ok)
	assert.Equal(t, uint32(0xabcd), ssrc)

	found := false
	for _, f := range fields {
		if f.Type == wire.RadioFrequency {
			found = true
			assert.InDelta(t, 14074000.0, tlv.DecodeFloat64(f.Value), 1e-6)
		}
	}
	assert.True(t, found)
}

func TestEncodeStatusEchoesCommandTagWhenNonzero(t *testing.T) {
	c := channel.New(1)
	body := EncodeStatus(c, 77)
	fields := tlv.Decode(body)

	tag, ok := wire.CommandTagOf(fields)
	require.True(t, ok)
	assert.Equal(t, uint32(77), tag)
}

func TestEncodeStatusOmitsCommandTagWhenZero(t *testing.T) {
	c := channel.New(1)
	body := EncodeStatus(c, 0)
	fields := tlv.Decode(body)

	_, ok := wire.CommandTagOf(fields)
	assert.False(t, ok)
}
