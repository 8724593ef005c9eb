package bus

import (
	"fmt"
	"sync"
	"sync/atomic"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2CBus is a host I2C adapter, typically /dev/i2c-N on Linux
type I2CBus struct {
	name   string
	bus    i2c.BusCloser
	mu     sync.Mutex
	stats  *Statistics
	closed atomic.Bool
}

// I2CInfo describes an I2C adapter registered on the host
type I2CInfo struct {
	Name    string
	Aliases []string
	Number  int
}

var (
	hostOnce sync.Once
	hostErr  error
)

func initHost() error {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	return hostErr
}

// ListI2C returns the I2C adapters known to the host
func ListI2C() ([]I2CInfo, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	refs := i2creg.All()
	infos := make([]I2CInfo, 0, len(refs))
	for _, ref := range refs {
		infos = append(infos, I2CInfo{Name: ref.Name, Aliases: ref.Aliases, Number: ref.Number})
	}
	return infos, nil
}

// OpenI2C opens an I2C adapter by name or number ("1", "I2C1", "/dev/i2c-1").
// An empty name opens the first adapter.
func OpenI2C(name string) (*I2CBus, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}

	return &I2CBus{name: name, bus: b, stats: NewStatistics()}, nil
}

// Send implements Bus.Send
func (b *I2CBus) Send(addr uint8, data []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.mu.Lock()
	err := b.bus.Tx(uint16(addr>>1), data, nil)
	b.mu.Unlock()

	b.stats.Sent(len(data), err)
	return err
}

// Receive implements Bus.Receive
func (b *I2CBus) Receive(addr uint8, n int) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}

	buf := make([]byte, n)
	b.mu.Lock()
	err := b.bus.Tx(uint16(addr>>1), nil, buf)
	b.mu.Unlock()

	b.stats.Received(n, err)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Close implements Bus.Close
func (b *I2CBus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.bus.Close()
}

// Statistics implements StatisticsProvider
func (b *I2CBus) Statistics() Stats {
	return b.stats.Snapshot()
}

// String returns the adapter name
func (b *I2CBus) String() string {
	return b.bus.String()
}
