package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
)

func TestDemodTypeRoundTrip(t *testing.T) {
	for _, name := range []string{"linear", "fm", "wfm", "spectrum", "spectrum2"} {
		dt, ok := DemodTypeFromName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, DemodTypeName(dt))
	}
}

func TestDemodTypeFromNameCaseInsensitive(t *testing.T) {
	dt, ok := DemodTypeFromName("FM")
	require.True(t, ok)
	assert.Equal(t, FM, dt)
}

func TestDemodTypeFromNameUnknown(t *testing.T) {
	_, ok := DemodTypeFromName("nonsense")
	assert.False(t, ok)
}

func TestFilterSetEdgesOrdersMinMax(t *testing.T) {
	var f Filter
	f.SetEdges(5000, -5000)
	assert.LessOrEqual(t, f.MinIF, f.MaxIF)
	assert.Equal(t, -5000.0, f.MinIF)
	assert.Equal(t, 5000.0, f.MaxIF)
}

func TestFilterSetEdgesAlreadyOrdered(t *testing.T) {
	var f Filter
	f.SetEdges(-3000, 3000)
	assert.Equal(t, -3000.0, f.MinIF)
	assert.Equal(t, 3000.0, f.MaxIF)
}

func TestPendingCommandLatestWins(t *testing.T) {
	c := New(0x2A)
	c.SetPendingCommand([]byte("first"))
	c.SetPendingCommand([]byte("second"))
	got := c.SwapPendingCommand()
	assert.Equal(t, []byte("second"), got)
	// slot is cleared after swap
	assert.Nil(t, c.SwapPendingCommand())
}

func TestSSRCImmutableAcrossApply(t *testing.T) {
	c := New(0x2A)
	var buf []byte
	buf = tlv.EncodeUint32(buf, wire.OutputSSRC, 0x99)
	buf = tlv.EncodeFloat64(buf, wire.RadioFrequency, 7074000)
	c.ApplyFields(tlv.Decode(buf))
	assert.Equal(t, uint32(0x2A), c.SSRC)
	assert.Equal(t, uint32(0x2A), c.Output.SSRC)
}

func TestBeamWeightMagnitudeIsAmplitude(t *testing.T) {
	w := BeamWeight(2.0, 0)
	assert.InDelta(t, 2.0, real(w), 1e-9)
	assert.InDelta(t, 0.0, imag(w), 1e-9)

	w90 := BeamWeight(1.0, 90)
	assert.InDelta(t, 0.0, real(w90), 1e-9)
	assert.InDelta(t, 1.0, imag(w90), 1e-9)
}

func TestNewChannelDefaults(t *testing.T) {
	c := New(1)
	assert.Equal(t, Linear, c.DemodType)
	assert.True(t, c.Linear.AGCEnable)
	assert.Equal(t, 25, c.Status.OutputInterval)
}

func TestConsumeRestartNeededClearsFlag(t *testing.T) {
	c := New(1)
	c.RestartNeeded = true

	assert.True(t, c.ConsumeRestartNeeded())
	assert.False(t, c.ConsumeRestartNeeded())
	assert.False(t, c.RestartNeeded)
}
