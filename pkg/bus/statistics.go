package bus

import "sync/atomic"

// Stats is a snapshot of bus traffic counters
type Stats struct {
	Sends         uint64 // Completed send transactions
	Receives      uint64 // Completed receive transactions
	BytesSent     uint64 // Total bytes sent
	BytesReceived uint64 // Total bytes received
	SendErrors    uint64 // Failed send transactions
	ReceiveErrors uint64 // Failed receive transactions
}

// Statistics tracks bus-level counters
type Statistics struct {
	sends         atomic.Uint64
	receives      atomic.Uint64
	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64
	sendErrors    atomic.Uint64
	receiveErrors atomic.Uint64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Sent records a send transaction
func (s *Statistics) Sent(n int, err error) {
	if err != nil {
		s.sendErrors.Add(1)
		return
	}
	s.sends.Add(1)
	s.bytesSent.Add(uint64(n))
}

// Received records a receive transaction
func (s *Statistics) Received(n int, err error) {
	if err != nil {
		s.receiveErrors.Add(1)
		return
	}
	s.receives.Add(1)
	s.bytesReceived.Add(uint64(n))
}

// Snapshot returns the current counters
func (s *Statistics) Snapshot() Stats {
	return Stats{
		Sends:         s.sends.Load(),
		Receives:      s.receives.Load(),
		BytesSent:     s.bytesSent.Load(),
		BytesReceived: s.bytesReceived.Load(),
		SendErrors:    s.sendErrors.Load(),
		ReceiveErrors: s.receiveErrors.Load(),
	}
}

// Reset resets all statistics
func (s *Statistics) Reset() {
	s.sends.Store(0)
	s.receives.Store(0)
	s.bytesSent.Store(0)
	s.bytesReceived.Store(0)
	s.sendErrors.Store(0)
	s.receiveErrors.Store(0)
}
