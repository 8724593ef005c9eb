package ddc

import (
	"avaneesh/ddc-go/pkg/ddcci"
)

// Config configures a display connection
type Config struct {
	ID string

	// Bus addresses, zero selects the DDC/CI defaults
	DisplayAddress uint8
	ReplyAddress   uint8
	HostAddress    uint8
}

// DefaultConfig returns a configuration with DDC/CI addresses
func DefaultConfig() Config {
	return Config{
		ID:             "display",
		DisplayAddress: ddcci.DisplayAddress,
		ReplyAddress:   ddcci.ReplyAddress,
		HostAddress:    ddcci.HostAddress,
	}
}

func (c *Config) setDefaults() {
	if c.ID == "" {
		c.ID = "display"
	}
	if c.DisplayAddress == 0 {
		c.DisplayAddress = ddcci.DisplayAddress
	}
	if c.ReplyAddress == 0 {
		c.ReplyAddress = ddcci.ReplyAddress
	}
	if c.HostAddress == 0 {
		c.HostAddress = ddcci.HostAddress
	}
}
