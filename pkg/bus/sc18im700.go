package bus

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

// NXP SC18IM700 UART to I2C bridge commands
const (
	bridgeStart         byte = 'S'
	bridgeStop          byte = 'P'
	bridgeReadRegister  byte = 'R'
	bridgeWriteRegister byte = 'W'

	bridgeRegI2CClkL byte = 0x07
	bridgeRegI2CClkH byte = 0x08
	bridgeRegI2CStat byte = 0x0A
	bridgeMaxCount        = 255

	// 7.3728 MHz / (8 * (5 + 5)) = 92 kHz, the fastest clock under the
	// 100 kHz DDC limit. The power-on default runs at 24 kHz.
	bridgeClockPeriod byte = 0x05
)

// I2CStat register values
const (
	bridgeStatOK        byte = 0xF0
	bridgeStatNackAddr  byte = 0xF1
	bridgeStatNackData  byte = 0xF2
	bridgeStatTimeout   byte = 0xF8
	bridgeStatTxTimeout byte = 0xF9
)

// Errors
var (
	ErrBridgeNackAddress = errors.New("i2c bridge: address not acknowledged")
	ErrBridgeNackData    = errors.New("i2c bridge: data not acknowledged")
	ErrBridgeTimeout     = errors.New("i2c bridge: bus timeout")
	ErrBridgeTooLong     = errors.New("i2c bridge: transfer longer than 255 bytes")
)

// SerialBridgeConfig configures a serial I2C bridge
type SerialBridgeConfig struct {
	Port     string        // Serial device, e.g. /dev/ttyUSB0
	BaudRate int           // Default 9600
	Timeout  time.Duration // Per read timeout, default 1s
}

// SerialBridge drives a display's DDC lines through an SC18IM700
// attached to a serial port
type SerialBridge struct {
	port    io.ReadWriteCloser
	timeout time.Duration
	mu      sync.Mutex
	stats   *Statistics
	closed  atomic.Bool
}

// OpenSerialBridge opens the serial port the bridge is attached to
func OpenSerialBridge(config SerialBridgeConfig) (*SerialBridge, error) {
	if config.Port == "" {
		return nil, fmt.Errorf("port is required")
	}
	if config.BaudRate == 0 {
		config.BaudRate = 9600
	}
	if config.Timeout == 0 {
		config.Timeout = time.Second
	}

	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(config.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", config.Port, err)
	}
	if err := port.SetReadTimeout(config.Timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to reset input buffer: %w", err)
	}

	bridge := NewSerialBridge(port, config.Timeout)
	if err := bridge.configure(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to configure i2c bridge: %w", err)
	}
	return bridge, nil
}

// NewSerialBridge creates a bridge over an already open port. Reads on
// port must return (0, nil) or an error once timeout elapses.
func NewSerialBridge(port io.ReadWriteCloser, timeout time.Duration) *SerialBridge {
	return &SerialBridge{port: port, timeout: timeout, stats: NewStatistics()}
}

// ListSerialPorts returns the serial ports present on the host
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

// Send implements Bus.Send
func (b *SerialBridge) Send(addr uint8, data []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if len(data) > bridgeMaxCount {
		return ErrBridgeTooLong
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cmd := make([]byte, 0, len(data)+4)
	cmd = append(cmd, bridgeStart, addr&^1, byte(len(data)))
	cmd = append(cmd, data...)
	cmd = append(cmd, bridgeStop)

	err := b.write(cmd)
	if err == nil {
		err = b.status()
	}
	b.stats.Sent(len(data), err)
	return err
}

// Receive implements Bus.Receive
func (b *SerialBridge) Receive(addr uint8, n int) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	if n > bridgeMaxCount {
		return nil, ErrBridgeTooLong
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.receive(addr, n)
	b.stats.Received(n, err)
	return buf, err
}

func (b *SerialBridge) receive(addr uint8, n int) ([]byte, error) {
	if err := b.write([]byte{bridgeStart, addr | 1, byte(n), bridgeStop}); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if err := b.readFull(buf); err != nil {
		return nil, err
	}
	if err := b.status(); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeRegisters writes reg/value pairs into the bridge's internal registers
func (b *SerialBridge) writeRegisters(pairs ...byte) error {
	cmd := make([]byte, 0, len(pairs)+2)
	cmd = append(cmd, bridgeWriteRegister)
	cmd = append(cmd, pairs...)
	cmd = append(cmd, bridgeStop)
	return b.write(cmd)
}

// configure sets the bridge's I2C clock for DDC
func (b *SerialBridge) configure() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeRegisters(
		bridgeRegI2CClkL, bridgeClockPeriod,
		bridgeRegI2CClkH, bridgeClockPeriod,
	)
}

// status reads I2CStat after a transaction
func (b *SerialBridge) status() error {
	if err := b.write([]byte{bridgeReadRegister, bridgeRegI2CStat, bridgeStop}); err != nil {
		return err
	}

	stat := make([]byte, 1)
	if err := b.readFull(stat); err != nil {
		return err
	}

	switch stat[0] {
	case bridgeStatOK:
		return nil
	case bridgeStatNackAddr:
		return ErrBridgeNackAddress
	case bridgeStatNackData:
		return ErrBridgeNackData
	case bridgeStatTimeout, bridgeStatTxTimeout:
		return ErrBridgeTimeout
	default:
		return fmt.Errorf("i2c bridge: unexpected status 0x%02X", stat[0])
	}
}

func (b *SerialBridge) write(data []byte) error {
	n, err := b.port.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write to serial port: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}
	return nil
}

// readFull reads len(buf) bytes; a read returning nothing means the
// port timed out
func (b *SerialBridge) readFull(buf []byte) error {
	read := 0
	for read < len(buf) {
		n, err := b.port.Read(buf[read:])
		if err != nil {
			return fmt.Errorf("failed to read from serial port: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %d of %d bytes after %s", ErrShortRead, read, len(buf), b.timeout)
		}
		read += n
	}
	return nil
}

// Close implements Bus.Close
func (b *SerialBridge) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.port.Close()
}

// Statistics implements StatisticsProvider
func (b *SerialBridge) Statistics() Stats {
	return b.stats.Snapshot()
}
