package ddc

import (
	"context"
	"fmt"
	"time"

	"avaneesh/ddc-go/pkg/bus"
	"avaneesh/ddc-go/pkg/simulator"
)

// Transport types accepted by OpenBus
const (
	TransportI2C       = "i2c"
	TransportSerial    = "serial"
	TransportTCP       = "tcp"
	TransportQUIC      = "quic"
	TransportSimulator = "sim"
)

// BusConfig describes how to reach a display
type BusConfig struct {
	ID        string        `mapstructure:"id"`
	Transport string        `mapstructure:"transport"`
	Device    string        `mapstructure:"device"` // I2C adapter, serial port or agent address
	BaudRate  int           `mapstructure:"baud_rate"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// OpenBus opens the bus described by cfg
func OpenBus(ctx context.Context, cfg BusConfig) (bus.Bus, error) {
	var (
		b   bus.Bus
		err error
	)

	switch cfg.Transport {
	case TransportI2C, "":
		var i2c *bus.I2CBus
		if i2c, err = bus.OpenI2C(cfg.Device); err == nil {
			b = i2c
		}
	case TransportSerial:
		var bridge *bus.SerialBridge
		bridge, err = bus.OpenSerialBridge(bus.SerialBridgeConfig{
			Port:     cfg.Device,
			BaudRate: cfg.BaudRate,
			Timeout:  cfg.Timeout,
		})
		if err == nil {
			b = bridge
		}
	case TransportTCP, TransportQUIC:
		dial := bus.DialTCP
		if cfg.Transport == TransportQUIC {
			dial = bus.DialQUIC
		}
		var remote *bus.RemoteBus
		if remote, err = dial(ctx, bus.DialConfig{Address: cfg.Device, Timeout: cfg.Timeout}); err == nil {
			b = remote
		}
	case TransportSimulator:
		b = simulator.NewDisplay(simulator.DefaultConfig())
	default:
		err = fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	if err != nil {
		return nil, fmt.Errorf("display %s: %w", cfg.ID, err)
	}
	return b, nil
}
