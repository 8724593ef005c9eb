package bus

import "errors"

// Bus is the two-wire transport a display is reached over.
// Addresses are 8-bit DDC addresses (0x6E write, 0x6F read).
// Implementations are not required to be safe for concurrent use; a
// display connection owns its bus exclusively.
type Bus interface {
	// Send writes data to addr in a single bus transaction
	Send(addr uint8, data []byte) error

	// Receive reads exactly n bytes from addr in a single bus transaction
	Receive(addr uint8, n int) ([]byte, error)

	// Close releases the underlying device
	Close() error
}

// StatisticsProvider is implemented by buses that track traffic counters
type StatisticsProvider interface {
	Statistics() Stats
}

// Errors
var (
	ErrClosed    = errors.New("bus closed")
	ErrShortRead = errors.New("short read")
)
