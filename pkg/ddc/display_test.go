package ddc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avaneesh/ddc-go/pkg/ddcci"
	"avaneesh/ddc-go/pkg/mccs"
	"avaneesh/ddc-go/pkg/simulator"
)

func newTestDisplay(t *testing.T, config simulator.Config) (*Display, *simulator.Display) {
	t.Helper()
	sim := simulator.NewDisplay(config)
	d, err := New(sim, Config{ID: "test"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d, sim
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// sentCommands returns the opcode and first argument of every frame
// written to the display
func sentCommands(txs []simulator.Transaction) [][2]byte {
	var out [][2]byte
	for _, tx := range txs {
		if tx.Addr != ddcci.DisplayAddress {
			continue
		}
		cmd := [2]byte{tx.Data[2]}
		if len(tx.Data) > 4 {
			cmd[1] = tx.Data[3]
		}
		out = append(out, cmd)
	}
	return out
}

func TestNewRequiresBus(t *testing.T) {
	_, err := New(nil, Config{}, nil)
	assert.Error(t, err)
}

func TestGetVCPFeature(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())

	reply, err := d.GetVCPFeature(testContext(t), mccs.Luminance)
	require.NoError(t, err)
	assert.Equal(t, VCPReply{Code: mccs.Luminance, Type: VCPTypeSet, Maximum: 100, Current: 75}, reply)

	txs := sim.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, []byte{0x51, 0x82, 0x01, 0x10, 0xAC}, txs[0].Data)
	assert.Equal(t, ddcci.ReplyAddress, txs[1].Addr)
	assert.Len(t, txs[1].Data, getVCPReplyLength+ddcci.EnvelopeOverhead)
	assert.GreaterOrEqual(t, txs[1].Time.Sub(txs[0].Time), ddcci.RequestDelay)
}

func TestGetVCPFeatureMomentary(t *testing.T) {
	d, _ := newTestDisplay(t, simulator.DefaultConfig())

	reply, err := d.GetVCPFeature(testContext(t), mccs.Degauss)
	require.NoError(t, err)
	assert.Equal(t, VCPTypeMomentary, reply.Type)
}

func TestSetVCPFeature(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())
	ctx := testContext(t)

	require.NoError(t, d.SetVCPFeature(ctx, mccs.Luminance, 50))

	v, ok := sim.Value(mccs.Luminance)
	require.True(t, ok)
	assert.Equal(t, uint16(50), v)

	reply, err := d.GetVCPFeature(ctx, mccs.Luminance)
	require.NoError(t, err)
	assert.Equal(t, uint16(50), reply.Current)

	txs := sim.Transactions()
	require.Len(t, txs, 3)
	assert.Equal(t, []byte{0x51, 0x84, 0x03, 0x10, 0x00, 0x32, 0x9A}, txs[0].Data)
	assert.GreaterOrEqual(t, txs[1].Time.Sub(txs[0].Time), ddcci.SetDelay)
}

func TestSaveCurrentSettings(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())

	require.NoError(t, d.SaveCurrentSettings(testContext(t)))
	assert.Equal(t, 1, sim.Saves())

	txs := sim.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, []byte{0x51, 0x81, 0x0C, 0xB2}, txs[0].Data)
}

func TestSaveDelaysNextCommand(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())
	ctx := testContext(t)

	require.NoError(t, d.SaveCurrentSettings(ctx))
	_, err := d.GetVCPFeature(ctx, mccs.Contrast)
	require.NoError(t, err)

	txs := sim.Transactions()
	require.Len(t, txs, 3)
	assert.GreaterOrEqual(t, txs[1].Time.Sub(txs[0].Time), ddcci.SaveSettingsDelay)
}

func TestCapabilities(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())
	ctx := testContext(t)

	raw, err := d.CapabilitiesString(ctx)
	require.NoError(t, err)
	assert.Equal(t, sim.CapabilityString(), raw)

	chunks := (len(raw) + 31) / 32
	sent := sentCommands(sim.Transactions())
	require.Len(t, sent, chunks+1)
	for _, cmd := range sent {
		assert.Equal(t, byte(ddcci.CmdCapabilitiesRequest), cmd[0])
	}
}

func TestCapabilitiesParsed(t *testing.T) {
	d, _ := newTestDisplay(t, simulator.DefaultConfig())

	caps, err := d.Capabilities(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "monitor", caps.Prot)
	assert.Equal(t, "lcd", caps.Type)
	assert.Equal(t, "SIM2400", caps.Model)
	assert.Equal(t, "2.2", caps.MCCSVersion)
	assert.True(t, caps.Supports(mccs.Luminance))
	assert.Equal(t, []uint16{0x01, 0x03, 0x0F, 0x11, 0x12}, caps.Values(mccs.InputSelect))
}

func TestCapabilitiesSmallChunks(t *testing.T) {
	config := simulator.DefaultConfig()
	config.Capabilities = "(prot(monitor)model(X1))"
	config.ChunkSize = 5
	config.NulTerminate = true
	d, sim := newTestDisplay(t, config)

	raw, err := d.CapabilitiesString(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "(prot(monitor)model(X1))", raw)

	// 25 bytes including the NUL, five full chunks and the empty one
	sent := sentCommands(sim.Transactions())
	require.Len(t, sent, 6)

	txs := sim.Transactions()
	var offsets []uint16
	for _, tx := range txs {
		if tx.Addr == ddcci.DisplayAddress {
			offsets = append(offsets, uint16(tx.Data[3])<<8|uint16(tx.Data[4]))
		}
	}
	assert.Equal(t, []uint16{0, 5, 10, 15, 20, 25}, offsets)
	assert.GreaterOrEqual(t, txs[2].Time.Sub(txs[1].Time), ddcci.CapabilitiesReplyDelay)
}

func TestCommandOrdering(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())

	results := make(chan mccs.VCPCode, 2)
	for _, code := range []mccs.VCPCode{mccs.Luminance, mccs.Contrast} {
		d.RequestVCPFeature(code, func(r VCPReply, err error) {
			assert.NoError(t, err)
			results <- r.Code
		})
	}

	assert.Equal(t, mccs.Luminance, <-results)
	assert.Equal(t, mccs.Contrast, <-results)

	txs := sim.Transactions()
	require.Len(t, txs, 4)
	addrs := []uint8{txs[0].Addr, txs[1].Addr, txs[2].Addr, txs[3].Addr}
	assert.Equal(t, []uint8{0x6E, 0x6F, 0x6E, 0x6F}, addrs)
	assert.Equal(t, byte(mccs.Luminance), txs[0].Data[3])
	assert.Equal(t, byte(mccs.Contrast), txs[2].Data[3])
}

func TestCapabilitiesInterleave(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())

	capsDone := make(chan error, 1)
	getDone := make(chan error, 1)
	d.RequestCapabilities(func(_ string, err error) { capsDone <- err })
	d.RequestVCPFeature(mccs.Luminance, func(_ VCPReply, err error) { getDone <- err })

	require.NoError(t, <-getDone)
	require.NoError(t, <-capsDone)

	// The get goes out between the first chunk's reply and the next chunk
	sent := sentCommands(sim.Transactions())
	require.Greater(t, len(sent), 3)
	assert.Equal(t, byte(ddcci.CmdCapabilitiesRequest), sent[0][0])
	assert.Equal(t, byte(ddcci.CmdVCPRequest), sent[1][0])
	assert.Equal(t, byte(ddcci.CmdCapabilitiesRequest), sent[2][0])
}

func TestUnsupportedVCPCode(t *testing.T) {
	d, _ := newTestDisplay(t, simulator.DefaultConfig())

	_, err := d.GetVCPFeature(testContext(t), mccs.Sharpness)
	assert.ErrorIs(t, err, ErrUnsupportedVCPCode)
	assert.True(t, IsProtocolError(err))
}

func TestReplyFaults(t *testing.T) {
	tests := []struct {
		name    string
		faults  simulator.Faults
		wantErr error
	}{
		{"Checksum", simulator.Faults{CorruptChecksum: true}, ddcci.ErrChecksumMismatch},
		{"Source", simulator.Faults{WrongSource: true}, ddcci.ErrUnexpectedSource},
		{"Opcode", simulator.Faults{WrongOpcode: true}, ddcci.ErrUnexpectedCommand},
		{"Echo", simulator.Faults{EchoCode: true}, ErrUnexpectedVCPCode},
		{"Type", simulator.Faults{UnknownType: true}, ddcci.ErrUnknownData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sim := newTestDisplay(t, simulator.DefaultConfig())
			sim.SetFaults(tt.faults)

			_, err := d.GetVCPFeature(testContext(t), mccs.Luminance)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, IsTransportError(err))
		})
	}
}

func TestCapabilitiesOffsetSkew(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())
	sim.SetFaults(simulator.Faults{OffsetSkew: 1})

	_, err := d.CapabilitiesString(testContext(t))
	assert.ErrorIs(t, err, ErrUnexpectedOffset)
	assert.Len(t, sentCommands(sim.Transactions()), 1)
}

func TestNullReplyIsInvalidLength(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())
	ctx := testContext(t)

	// A set produces no reply, so the display answers a read with a
	// null message
	require.NoError(t, d.SetVCPFeature(ctx, mccs.Luminance, 10))
	_, err := d.receive(getVCPReplyLength, getVCPReplyLength)
	assert.ErrorIs(t, err, ddcci.ErrInvalidLength)
	assert.True(t, sim.Statistics().Receives > 0)
}

func TestTransportErrors(t *testing.T) {
	injected := errors.New("bus stuck")

	tests := []struct {
		name   string
		faults simulator.Faults
		op     string
	}{
		{"Send", simulator.Faults{SendError: injected}, "send"},
		{"Receive", simulator.Faults{ReceiveError: injected}, "receive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sim := newTestDisplay(t, simulator.DefaultConfig())
			sim.SetFaults(tt.faults)

			_, err := d.GetVCPFeature(testContext(t), mccs.Luminance)
			require.ErrorIs(t, err, injected)
			assert.True(t, IsTransportError(err))

			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.op, te.Op)
		})
	}
}

func TestSetTransportError(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())
	injected := errors.New("nack")
	sim.SetFaults(simulator.Faults{SendError: injected})

	err := d.SetVCPFeature(testContext(t), mccs.Luminance, 1)
	assert.ErrorIs(t, err, injected)

	_, err = d.CapabilitiesString(testContext(t))
	assert.ErrorIs(t, err, injected)
}

func TestQueueContinuesAfterError(t *testing.T) {
	d, _ := newTestDisplay(t, simulator.DefaultConfig())
	ctx := testContext(t)

	_, err := d.GetVCPFeature(ctx, mccs.Sharpness)
	require.Error(t, err)

	reply, err := d.GetVCPFeature(ctx, mccs.Contrast)
	require.NoError(t, err)
	assert.Equal(t, uint16(50), reply.Current)
}

func TestClosedDisplay(t *testing.T) {
	d, _ := newTestDisplay(t, simulator.DefaultConfig())
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	ctx := testContext(t)
	_, err := d.GetVCPFeature(ctx, mccs.Luminance)
	assert.ErrorIs(t, err, ErrDisplayClosed)
	assert.ErrorIs(t, d.SetVCPFeature(ctx, mccs.Luminance, 1), ErrDisplayClosed)
	assert.ErrorIs(t, d.SaveCurrentSettings(ctx), ErrDisplayClosed)
	_, err = d.CapabilitiesString(ctx)
	assert.ErrorIs(t, err, ErrDisplayClosed)
}

func TestContextCancelStopsWaitOnly(t *testing.T) {
	d, sim := newTestDisplay(t, simulator.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.GetVCPFeature(ctx, mccs.Luminance)
	assert.ErrorIs(t, err, context.Canceled)

	// The queued command still runs to completion
	assert.Eventually(t, func() bool {
		return len(sim.Transactions()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDisplayStatistics(t *testing.T) {
	d, _ := newTestDisplay(t, simulator.DefaultConfig())

	_, err := d.GetVCPFeature(testContext(t), mccs.Luminance)
	require.NoError(t, err)

	stats, ok := d.Statistics()
	require.True(t, ok)
	assert.Equal(t, uint64(1), stats.Sends)
	assert.Equal(t, uint64(1), stats.Receives)
	assert.Equal(t, uint64(5), stats.BytesSent)
	assert.Equal(t, "test", d.ID())
	assert.Equal(t, 0, d.Pending())
}
