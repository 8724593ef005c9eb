package bus

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

type deadliner interface {
	SetDeadline(t time.Time) error
}

// RemoteBus forwards bus transactions to an Agent over a byte stream
type RemoteBus struct {
	stream  io.ReadWriteCloser
	onClose func() error
	timeout time.Duration
	mu      sync.Mutex
	stats   *Statistics
	closed  atomic.Bool
}

// NewRemoteBus creates a bus over an established tunnel stream. If
// stream supports deadlines, each transaction is bounded by timeout.
func NewRemoteBus(stream io.ReadWriteCloser, timeout time.Duration) *RemoteBus {
	return &RemoteBus{stream: stream, timeout: timeout, stats: NewStatistics()}
}

// Send implements Bus.Send
func (b *RemoteBus) Send(addr uint8, data []byte) error {
	_, err := b.roundTrip(tunnelRequest{op: opSend, addr: addr, length: len(data), data: data})
	b.stats.Sent(len(data), err)
	return err
}

// Receive implements Bus.Receive
func (b *RemoteBus) Receive(addr uint8, n int) ([]byte, error) {
	data, err := b.roundTrip(tunnelRequest{op: opReceive, addr: addr, length: n})
	if err == nil && len(data) != n {
		err = fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, len(data), n)
	}
	b.stats.Received(n, err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *RemoteBus) roundTrip(req tunnelRequest) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if d, ok := b.stream.(deadliner); ok && b.timeout > 0 {
		d.SetDeadline(time.Now().Add(b.timeout))
		defer d.SetDeadline(time.Time{})
	}

	if err := writeRequest(b.stream, req); err != nil {
		return nil, fmt.Errorf("tunnel write: %w", err)
	}

	data, err := readResponse(b.stream)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			return nil, err
		}
		return nil, fmt.Errorf("tunnel read: %w", err)
	}
	return data, nil
}

// Close implements Bus.Close
func (b *RemoteBus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := b.stream.Close()
	if b.onClose != nil {
		if cerr := b.onClose(); err == nil {
			err = cerr
		}
	}
	return err
}

// Statistics implements StatisticsProvider
func (b *RemoteBus) Statistics() Stats {
	return b.stats.Snapshot()
}
