package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/radiod-engine/internal/channel"
	"github.com/cwsl/radiod-engine/internal/env"
	"github.com/cwsl/radiod-engine/internal/preset"
	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
)

func testEnv() env.Environment { return env.New(0.02, 5, 0) }

func TestCreateRejectsDuplicateSSRC(t *testing.T) {
	mgr := New(testEnv(), nil)
	_, err := mgr.Create(0x1234)
	require.NoError(t, err)
	_, err = mgr.Create(0x1234)
	assert.Error(t, err)
}

func TestDestroyReportsMissingChannel(t *testing.T) {
	mgr := New(testEnv(), nil)
	assert.False(t, mgr.Destroy(0x9999))
	_, _ = mgr.Create(0x1)
	assert.True(t, mgr.Destroy(0x1))
	assert.False(t, mgr.Destroy(0x1))
}

func TestAllReturnsSnapshotOfLiveChannels(t *testing.T) {
	mgr := New(testEnv(), nil)
	mgr.Create(1)
	mgr.Create(2)
	mgr.Create(3)
	assert.Len(t, mgr.All(), 3)
}

func buildCommand(ssrc uint32) wire.Message {
	var buf []byte
	buf = tlv.EncodeUint32(buf, wire.OutputSSRC, ssrc)
	buf = tlv.EncodeFloat64(buf, wire.RadioFrequency, 14074000)
	fields := tlv.Decode(buf)
	return wire.Message{Kind: wire.Cmd, Fields: fields}
}

func TestDispatchQueuesCommandForKnownChannel(t *testing.T) {
	mgr := New(testEnv(), nil)
	c, _ := mgr.Create(0x42)

	mgr.Dispatch(buildCommand(0x42))

	pending := c.SwapPendingCommand()
	assert.NotNil(t, pending)
}

func TestDispatchDropsCommandForUnknownChannel(t *testing.T) {
	mgr := New(testEnv(), nil)
	c, _ := mgr.Create(0x42)

	mgr.Dispatch(buildCommand(0x99))

	assert.Nil(t, c.SwapPendingCommand())
}

func TestDispatchIgnoresStatusMessages(t *testing.T) {
	mgr := New(testEnv(), nil)
	c, _ := mgr.Create(0x42)
	msg := buildCommand(0x42)
	msg.Kind = wire.Status

	mgr.Dispatch(msg)

	assert.Nil(t, c.SwapPendingCommand())
}

func TestApplyPendingFalseWhenNothingQueued(t *testing.T) {
	mgr := New(testEnv(), nil)
	mgr.Create(0x1)

	applied, err := mgr.ApplyPending(0x1, nil)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestApplyPendingErrorsForUnknownChannel(t *testing.T) {
	mgr := New(testEnv(), nil)
	_, err := mgr.ApplyPending(0xdead, nil)
	assert.Error(t, err)
}

func TestApplyPendingMutatesChannelFrequency(t *testing.T) {
	mgr := New(testEnv(), nil)
	c, _ := mgr.Create(0x2A)

	mgr.Dispatch(buildCommand(0x2A))
	applied, err := mgr.ApplyPending(0x2A, nil)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 14074000.0, c.Tune.Freq)
}

func TestApplyPendingAppliesNamedPreset(t *testing.T) {
	mgr := New(testEnv(), nil)
	c, _ := mgr.Create(0x2B)
	dict := preset.Dictionary{
		"nbfm": {"demod": "fm", "squelch-open": "-90"},
	}

	var buf []byte
	buf = tlv.EncodeUint32(buf, wire.OutputSSRC, 0x2B)
	buf = tlv.EncodeString(buf, wire.Preset, "nbfm")
	msg := wire.Message{Kind: wire.Cmd, Fields: tlv.Decode(buf)}

	mgr.Dispatch(msg)
	applied, err := mgr.ApplyPending(0x2B, dict)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, channel.FM, c.DemodType)
}

func TestApplyPendingRejectsUnrecognizedPresetKey(t *testing.T) {
	mgr := New(testEnv(), nil)
	mgr.Create(0x2C)
	dict := preset.Dictionary{"bogus": {"not-a-real-key": "1"}}

	var buf []byte
	buf = tlv.EncodeUint32(buf, wire.OutputSSRC, 0x2C)
	buf = tlv.EncodeString(buf, wire.Preset, "bogus")
	msg := wire.Message{Kind: wire.Cmd, Fields: tlv.Decode(buf)}

	mgr.Dispatch(msg)
	_, err := mgr.ApplyPending(0x2C, dict)
	assert.Error(t, err)
}
