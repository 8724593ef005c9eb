package bus

import (
	"errors"
	"sync"
)

// memBus records sends and replays queued replies
type memBus struct {
	mu      sync.Mutex
	sent    [][]byte
	addrs   []uint8
	replies [][]byte
	err     error
	closed  bool
}

func (b *memBus) Send(addr uint8, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.addrs = append(b.addrs, addr)
	b.sent = append(b.sent, append([]byte(nil), data...))
	return nil
}

func (b *memBus) Receive(addr uint8, n int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	b.addrs = append(b.addrs, addr)
	if len(b.replies) == 0 {
		return nil, errors.New("no reply queued")
	}
	reply := b.replies[0]
	b.replies = b.replies[1:]
	buf := make([]byte, n)
	copy(buf, reply)
	return buf, nil
}

func (b *memBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}
