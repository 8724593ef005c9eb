package simulator

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"avaneesh/ddc-go/pkg/bus"
	"avaneesh/ddc-go/pkg/ddcci"
	"avaneesh/ddc-go/pkg/mccs"
)

// Errors
var (
	ErrNack = errors.New("simulated display: not acknowledged")
)

// Faults corrupts replies so error paths can be exercised
type Faults struct {
	CorruptChecksum bool  // Flip the reply checksum
	WrongSource     bool  // Reply from 0x6A instead of 0x6E
	WrongOpcode     bool  // Reply with the identification reply opcode
	EchoCode        bool  // Echo a different VCP code in Get VCP replies
	UnknownType     bool  // Report VCP type 0x05
	OffsetSkew      int   // Added to echoed capability offsets
	NeverTerminate  bool  // Keep answering capability requests with data
	SendError       error // Fail every send
	ReceiveError    error // Fail every receive
}

// Transaction is a recorded bus transaction
type Transaction struct {
	Time time.Time
	Addr uint8
	Data []byte // Sent bytes, or bytes returned by a receive
}

type feature struct {
	maximum   uint16
	current   uint16
	momentary bool
}

// Display is a simulated DDC/CI display that implements bus.Bus
type Display struct {
	config  Config
	caps    []byte
	mu      sync.Mutex
	values  map[mccs.VCPCode]*feature
	pending []byte
	faults  Faults
	saves   int
	log     []Transaction
	stats   *bus.Statistics
	closed  atomic.Bool
}

// NewDisplay creates a simulated display
func NewDisplay(config Config) *Display {
	if config.ChunkSize <= 0 || config.ChunkSize > 32 {
		config.ChunkSize = 32
	}

	d := &Display{
		config: config,
		caps:   []byte(config.CapabilityString()),
		values: make(map[mccs.VCPCode]*feature, len(config.Features)),
		stats:  bus.NewStatistics(),
	}
	if config.NulTerminate {
		d.caps = append(d.caps, 0)
	}
	for code, f := range config.Features {
		d.values[code] = &feature{maximum: f.Maximum, current: f.Current, momentary: f.Momentary}
	}
	return d
}

// Send implements bus.Bus
func (d *Display) Send(addr uint8, data []byte) error {
	if d.closed.Load() {
		return bus.ErrClosed
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.record(addr, data)
	err := d.handle(addr, data)
	d.stats.Sent(len(data), err)
	return err
}

func (d *Display) handle(addr uint8, data []byte) error {
	if d.faults.SendError != nil {
		return d.faults.SendError
	}
	if addr != ddcci.DisplayAddress {
		return ErrNack
	}

	req, err := ddcci.ParseRequest(addr, data)
	if err != nil {
		// Displays ignore corrupt requests
		d.pending = nil
		return nil
	}

	switch req.Command {
	case ddcci.CmdVCPRequest:
		if len(req.Args) == 1 {
			d.pending = d.vcpReply(mccs.VCPCode(req.Args[0]))
		}
	case ddcci.CmdVCPSet:
		if len(req.Args) == 3 {
			if f, ok := d.values[mccs.VCPCode(req.Args[0])]; ok {
				f.current = binary.BigEndian.Uint16(req.Args[1:])
			}
		}
		d.pending = nil
	case ddcci.CmdCapabilitiesRequest:
		if len(req.Args) == 2 {
			d.pending = d.capabilitiesReply(int(binary.BigEndian.Uint16(req.Args)))
		}
	case ddcci.CmdSaveCurrentSettings:
		d.saves++
		d.pending = nil
	default:
		d.pending = nil
	}
	return nil
}

func (d *Display) vcpReply(code mccs.VCPCode) []byte {
	reply := make([]byte, 8)
	reply[0] = byte(ddcci.CmdVCPReply)
	reply[2] = byte(code)
	if d.faults.EchoCode {
		reply[2] = byte(code) + 1
	}

	f, ok := d.values[code]
	if !ok {
		reply[1] = 0x01
		return reply
	}
	if f.momentary {
		reply[3] = 0x01
	}
	if d.faults.UnknownType {
		reply[3] = 0x05
	}
	binary.BigEndian.PutUint16(reply[4:], f.maximum)
	binary.BigEndian.PutUint16(reply[6:], f.current)
	return reply
}

func (d *Display) capabilitiesReply(offset int) []byte {
	var chunk []byte
	if offset < len(d.caps) {
		end := offset + d.config.ChunkSize
		if end > len(d.caps) {
			end = len(d.caps)
		}
		chunk = d.caps[offset:end]
	} else if d.faults.NeverTerminate {
		chunk = []byte{' '}
	}

	reply := make([]byte, 3, 3+len(chunk))
	reply[0] = byte(ddcci.CmdCapabilitiesReply)
	binary.BigEndian.PutUint16(reply[1:], uint16(offset+d.faults.OffsetSkew))
	return append(reply, chunk...)
}

// Receive implements bus.Bus. Without a pending reply the display
// answers with a null message.
func (d *Display) Receive(addr uint8, n int) ([]byte, error) {
	if d.closed.Load() {
		return nil, bus.ErrClosed
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.receive(addr, n)
	d.stats.Received(n, err)
	if err != nil {
		return nil, err
	}
	d.record(addr, buf)
	return buf, nil
}

func (d *Display) receive(addr uint8, n int) ([]byte, error) {
	if d.faults.ReceiveError != nil {
		return nil, d.faults.ReceiveError
	}
	if addr != ddcci.ReplyAddress {
		return nil, ErrNack
	}

	payload := d.pending
	d.pending = nil
	if d.faults.WrongOpcode && len(payload) > 0 {
		payload = append([]byte{byte(ddcci.CmdIdentificationReply)}, payload[1:]...)
	}

	source := ddcci.DisplayAddress
	if d.faults.WrongSource {
		source = 0x6A
	}

	var frame []byte
	if len(payload) == 0 {
		frame = []byte{source, ddcci.LengthMarker, ddcci.Checksum(ddcci.ReplyChecksumSeed, []byte{source, ddcci.LengthMarker})}
	} else {
		var err error
		frame, err = ddcci.EncodeReply(source, payload)
		if err != nil {
			return nil, fmt.Errorf("simulated display: %w", err)
		}
	}
	if d.faults.CorruptChecksum {
		frame[len(frame)-1] ^= 0x01
	}

	buf := make([]byte, n)
	copy(buf, frame)
	return buf, nil
}

func (d *Display) record(addr uint8, data []byte) {
	d.log = append(d.log, Transaction{Time: time.Now(), Addr: addr, Data: append([]byte(nil), data...)})
}

// Close implements bus.Bus
func (d *Display) Close() error {
	d.closed.Store(true)
	return nil
}

// Statistics implements bus.StatisticsProvider
func (d *Display) Statistics() bus.Stats {
	return d.stats.Snapshot()
}

// SetFaults replaces the active faults
func (d *Display) SetFaults(f Faults) {
	d.mu.Lock()
	d.faults = f
	d.mu.Unlock()
}

// Value returns the current value of code
func (d *Display) Value(code mccs.VCPCode) (uint16, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.values[code]
	if !ok {
		return 0, false
	}
	return f.current, true
}

// Saves returns the number of save current settings commands received
func (d *Display) Saves() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saves
}

// Transactions returns the recorded bus traffic
func (d *Display) Transactions() []Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Transaction(nil), d.log...)
}

// CapabilityString returns the advertised capability string
func (d *Display) CapabilityString() string {
	return d.config.CapabilityString()
}
