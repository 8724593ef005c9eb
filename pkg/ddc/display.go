package ddc

import (
	"context"
	"fmt"
	"sync/atomic"

	"avaneesh/ddc-go/pkg/bus"
	"avaneesh/ddc-go/pkg/ddcci"
	"avaneesh/ddc-go/pkg/internal/logger"
	"avaneesh/ddc-go/pkg/internal/queue"
	"avaneesh/ddc-go/pkg/mccs"
)

// Display is a connection to one display. It owns its bus exclusively and
// runs every bus transaction on a single command queue, waiting out the
// DDC/CI inter-command delays between them.
//
// Request* methods return immediately and call done from the queue's
// worker. The blocking methods wrap them; cancelling their context stops
// the wait but not the queued command.
type Display struct {
	config Config
	bus    bus.Bus
	queue  *queue.CommandQueue
	logger logger.Logger
	closed atomic.Bool
}

// New creates a display connection over b
func New(b bus.Bus, config Config, log logger.Logger) (*Display, error) {
	if b == nil {
		return nil, fmt.Errorf("bus is required")
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	config.setDefaults()

	d := &Display{
		config: config,
		bus:    b,
		queue:  queue.NewCommandQueue(log),
		logger: log,
	}

	d.logger.Info("Display %s created: dst=0x%02X, src=0x%02X", config.ID, config.DisplayAddress, config.HostAddress)
	return d, nil
}

// ID returns the display identifier
func (d *Display) ID() string {
	return d.config.ID
}

// Close releases the bus. Commands still queued fail with a transport error.
func (d *Display) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	d.logger.Info("Display %s closed", d.config.ID)
	return d.bus.Close()
}

// Pending returns the number of queued bus transactions
func (d *Display) Pending() int {
	return d.queue.Len()
}

// Statistics returns bus counters when the bus tracks them
func (d *Display) Statistics() (bus.Stats, bool) {
	if sp, ok := d.bus.(bus.StatisticsProvider); ok {
		return sp.Statistics(), true
	}
	return bus.Stats{}, false
}

func (d *Display) send(cmd ddcci.Command, args ...byte) error {
	req := &ddcci.Request{
		Destination: d.config.DisplayAddress,
		Source:      d.config.HostAddress,
		Command:     cmd,
		Args:        args,
	}
	frame, err := req.Serialize()
	if err != nil {
		return err
	}

	logger.Frame(d.logger, "TX", d.config.DisplayAddress, frame)
	if err := d.bus.Send(d.config.DisplayAddress, frame); err != nil {
		return &TransportError{Op: "send", Address: d.config.DisplayAddress, Err: err}
	}
	return nil
}

func (d *Display) receive(minLen, maxLen int) ([]byte, error) {
	n := ddcci.ReplyBufferSize(maxLen)
	buf, err := d.bus.Receive(d.config.ReplyAddress, n)
	if err != nil {
		return nil, &TransportError{Op: "receive", Address: d.config.ReplyAddress, Err: err}
	}
	if len(buf) != n {
		return nil, &TransportError{
			Op:      "receive",
			Address: d.config.ReplyAddress,
			Err:     fmt.Errorf("%w: %d of %d bytes", bus.ErrShortRead, len(buf), n),
		}
	}

	logger.Frame(d.logger, "RX", d.config.ReplyAddress, buf)
	return ddcci.ParseReply(buf, d.config.DisplayAddress, minLen, maxLen)
}

// RequestVCPFeature sends Get VCP Feature and reads the reply
func (d *Display) RequestVCPFeature(code mccs.VCPCode, done func(VCPReply, error)) {
	if d.closed.Load() {
		done(VCPReply{}, ErrDisplayClosed)
		return
	}

	d.queue.Enqueue(ddcci.RequestDelay, false, func() {
		if err := d.send(ddcci.CmdVCPRequest, getVCPArgs(code)...); err != nil {
			done(VCPReply{}, err)
			return
		}

		d.queue.Enqueue(ddcci.ReplyDelay, true, func() {
			payload, err := d.receive(getVCPReplyLength, getVCPReplyLength)
			if err != nil {
				done(VCPReply{}, err)
				return
			}
			reply, err := parseGetVCPReply(payload)
			if err != nil {
				done(VCPReply{}, err)
				return
			}
			if reply.Code != code {
				done(VCPReply{}, fmt.Errorf("%w: got %s, want %s", ErrUnexpectedVCPCode, reply.Code, code))
				return
			}
			d.logger.Debug("Display %s: %s", d.config.ID, reply)
			done(reply, nil)
		})
	})
}

// RequestSetVCPFeature sends Set VCP Feature. Displays do not reply.
func (d *Display) RequestSetVCPFeature(code mccs.VCPCode, value uint16, done func(error)) {
	if d.closed.Load() {
		done(ErrDisplayClosed)
		return
	}

	d.queue.Enqueue(ddcci.SetDelay, false, func() {
		err := d.send(ddcci.CmdVCPSet, setVCPArgs(code, value)...)
		if err == nil {
			d.logger.Debug("Display %s: set %s to %d", d.config.ID, code, value)
		}
		done(err)
	})
}

// RequestSaveCurrentSettings asks the display to persist its current values
func (d *Display) RequestSaveCurrentSettings(done func(error)) {
	if d.closed.Load() {
		done(ErrDisplayClosed)
		return
	}

	d.queue.Enqueue(ddcci.SaveSettingsDelay, false, func() {
		done(d.send(ddcci.CmdSaveCurrentSettings))
	})
}

// RequestCapabilities reads the capability string chunk by chunk until
// the display returns an empty chunk
func (d *Display) RequestCapabilities(done func(string, error)) {
	if d.closed.Load() {
		done("", ErrDisplayClosed)
		return
	}

	r := NewReassembler()
	d.capabilitiesChunk(r, func(err error) {
		if err != nil {
			done("", err)
			return
		}
		d.logger.Debug("Display %s: capability string of %d bytes", d.config.ID, r.Len())
		done(r.String(), nil)
	})
}

func (d *Display) capabilitiesChunk(r *Reassembler, done func(error)) {
	d.queue.Enqueue(ddcci.RequestDelay, false, func() {
		if err := d.send(ddcci.CmdCapabilitiesRequest, capabilitiesArgs(r.Offset())...); err != nil {
			done(err)
			return
		}

		d.queue.Enqueue(ddcci.CapabilitiesReplyDelay, true, func() {
			payload, err := d.receive(capabilitiesReplyMinLen, capabilitiesReplyMaxLen)
			if err != nil {
				done(err)
				return
			}
			offset, data, err := parseCapabilitiesReply(payload)
			if err != nil {
				done(err)
				return
			}

			complete, err := r.Process(offset, data)
			switch {
			case err != nil:
				done(err)
			case complete:
				done(nil)
			default:
				d.capabilitiesChunk(r, done)
			}
		})
	})
}

type result[T any] struct {
	value T
	err   error
}

// wait blocks until start's completion fires or ctx is done
func wait[T any](ctx context.Context, start func(done func(T, error))) (T, error) {
	ch := make(chan result[T], 1)
	start(func(v T, err error) {
		ch <- result[T]{value: v, err: err}
	})

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func waitErr(ctx context.Context, start func(done func(error))) error {
	_, err := wait(ctx, func(done func(struct{}, error)) {
		start(func(err error) { done(struct{}{}, err) })
	})
	return err
}

// GetVCPFeature reads a VCP feature
func (d *Display) GetVCPFeature(ctx context.Context, code mccs.VCPCode) (VCPReply, error) {
	return wait(ctx, func(done func(VCPReply, error)) {
		d.RequestVCPFeature(code, done)
	})
}

// SetVCPFeature writes a VCP feature
func (d *Display) SetVCPFeature(ctx context.Context, code mccs.VCPCode, value uint16) error {
	return waitErr(ctx, func(done func(error)) {
		d.RequestSetVCPFeature(code, value, done)
	})
}

// SaveCurrentSettings persists the display's current values
func (d *Display) SaveCurrentSettings(ctx context.Context) error {
	return waitErr(ctx, d.RequestSaveCurrentSettings)
}

// CapabilitiesString reads the raw capability string
func (d *Display) CapabilitiesString(ctx context.Context) (string, error) {
	return wait(ctx, d.RequestCapabilities)
}

// Capabilities reads and parses the capability string
func (d *Display) Capabilities(ctx context.Context) (*mccs.Capabilities, error) {
	raw, err := d.CapabilitiesString(ctx)
	if err != nil {
		return nil, err
	}
	return mccs.ParseCapabilities(raw)
}
