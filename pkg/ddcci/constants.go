package ddcci

import (
	"errors"
	"fmt"
	"time"
)

// DDC/CI 1.1 bus constants

// Addresses (8-bit form, as written on the wire)
const (
	DisplayAddress uint8 = 0x6E // Display write address
	ReplyAddress   uint8 = 0x6F // Display read address
	HostAddress    uint8 = 0x51 // Source byte of host originated messages
)

// Envelope constants
const (
	LengthMarker      uint8 = 0x80 // Set in the length byte of every message
	LengthMask        uint8 = 0x7F // Declared length bits
	ReplyChecksumSeed uint8 = 0x50 // Virtual host address seeding reply checksums
	MaxPayloadLength        = 127  // Opcode plus arguments
	EnvelopeOverhead        = 3    // Source + length + checksum
)

// Inter-command delays mandated by DDC/CI 1.1 section 4.
const (
	RequestDelay           = 40 * time.Millisecond
	ReplyDelay             = 0
	CapabilitiesReplyDelay = 50 * time.Millisecond
	SetDelay               = 50 * time.Millisecond
	SaveSettingsDelay      = 200 * time.Millisecond
)

// Command is a DDC/CI opcode
type Command uint8

const (
	CmdVCPRequest              Command = 0x01
	CmdVCPReply                Command = 0x02
	CmdVCPSet                  Command = 0x03
	CmdTimingReply             Command = 0x06
	CmdTimingRequest           Command = 0x07
	CmdVCPReset                Command = 0x09
	CmdSaveCurrentSettings     Command = 0x0C
	CmdSelfTestReply           Command = 0xA1
	CmdSelfTestRequest         Command = 0xB1
	CmdIdentificationReply     Command = 0xE1
	CmdTableReadRequest        Command = 0xE2
	CmdCapabilitiesReply       Command = 0xE3
	CmdTableReadReply          Command = 0xE4
	CmdTableWrite              Command = 0xE7
	CmdIdentificationRequest   Command = 0xF1
	CmdCapabilitiesRequest     Command = 0xF3
	CmdEnableApplicationReport Command = 0xF5
)

var commandNames = map[Command]string{
	CmdVCPRequest:              "VCPRequest",
	CmdVCPReply:                "VCPReply",
	CmdVCPSet:                  "VCPSet",
	CmdTimingReply:             "TimingReply",
	CmdTimingRequest:           "TimingRequest",
	CmdVCPReset:                "VCPReset",
	CmdSaveCurrentSettings:     "SaveCurrentSettings",
	CmdSelfTestReply:           "SelfTestReply",
	CmdSelfTestRequest:         "SelfTestRequest",
	CmdIdentificationReply:     "IdentificationReply",
	CmdTableReadRequest:        "TableReadRequest",
	CmdCapabilitiesReply:       "CapabilitiesReply",
	CmdTableReadReply:          "TableReadReply",
	CmdTableWrite:              "TableWrite",
	CmdIdentificationRequest:   "IdentificationRequest",
	CmdCapabilitiesRequest:     "CapabilitiesRequest",
	CmdEnableApplicationReport: "EnableApplicationReport",
}

// String returns string representation of Command
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02X)", uint8(c))
}

// IsKnown reports whether c is a DDC/CI 1.1 opcode
func (c Command) IsKnown() bool {
	_, ok := commandNames[c]
	return ok
}

// Errors
var (
	ErrFrameTooShort     = errors.New("frame too short")
	ErrPayloadTooLong    = errors.New("payload too long")
	ErrEmptyPayload      = errors.New("empty payload")
	ErrInvalidLength     = errors.New("declared length out of range")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrUnexpectedSource  = errors.New("unexpected source address")
	ErrUnexpectedCommand = errors.New("unexpected command")
	ErrUnknownData       = errors.New("unrecognized value in reply")
)

var frameErrors = []error{
	ErrFrameTooShort,
	ErrInvalidLength,
	ErrChecksumMismatch,
	ErrUnexpectedSource,
	ErrUnexpectedCommand,
	ErrUnknownData,
}

// IsFrameError reports whether err is a wire validation failure
func IsFrameError(err error) bool {
	for _, target := range frameErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
