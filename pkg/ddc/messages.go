package ddc

import (
	"encoding/binary"
	"fmt"

	"avaneesh/ddc-go/pkg/ddcci"
	"avaneesh/ddc-go/pkg/mccs"
)

// Admissible reply lengths (opcode included)
const (
	getVCPReplyLength       = 8
	capabilitiesReplyMinLen = 3
	capabilitiesReplyMaxLen = 35
)

// GetVCPResultCode is the result byte of a Get VCP Feature reply
type GetVCPResultCode uint8

const (
	ResultNoError            GetVCPResultCode = 0x00
	ResultUnsupportedVCPCode GetVCPResultCode = 0x01
)

// VCPType tells whether a VCP value is persistent or momentary
type VCPType uint8

const (
	VCPTypeSet       VCPType = 0x00
	VCPTypeMomentary VCPType = 0x01
)

// String returns string representation of VCPType
func (t VCPType) String() string {
	switch t {
	case VCPTypeSet:
		return "Set"
	case VCPTypeMomentary:
		return "Momentary"
	default:
		return "Unknown"
	}
}

// VCPReply is a successful Get VCP Feature reply
type VCPReply struct {
	Code    mccs.VCPCode
	Type    VCPType
	Maximum uint16
	Current uint16
}

// String returns a string representation of the reply
func (r VCPReply) String() string {
	if r.Code.Function() == mccs.Continuous {
		return fmt.Sprintf("%s = %d / %d", r.Code, r.Current, r.Maximum)
	}
	return fmt.Sprintf("%s = %d", r.Code, r.Current)
}

func getVCPArgs(code mccs.VCPCode) []byte {
	return []byte{byte(code)}
}

func setVCPArgs(code mccs.VCPCode, value uint16) []byte {
	return []byte{byte(code), byte(value >> 8), byte(value)}
}

func capabilitiesArgs(offset uint16) []byte {
	return []byte{byte(offset >> 8), byte(offset)}
}

// parseGetVCPReply decodes opcode, result, code and type before any of
// the value fields are read
func parseGetVCPReply(payload []byte) (VCPReply, error) {
	if len(payload) != getVCPReplyLength {
		return VCPReply{}, fmt.Errorf("%w: %d", ddcci.ErrInvalidLength, len(payload))
	}
	if ddcci.Command(payload[0]) != ddcci.CmdVCPReply {
		return VCPReply{}, fmt.Errorf("%w: %s", ddcci.ErrUnexpectedCommand, ddcci.Command(payload[0]))
	}

	result := GetVCPResultCode(payload[1])
	code := mccs.VCPCode(payload[2])
	typ := VCPType(payload[3])

	if result != ResultNoError && result != ResultUnsupportedVCPCode {
		return VCPReply{}, fmt.Errorf("%w: result code 0x%02X", ddcci.ErrUnknownData, payload[1])
	}
	if !code.IsKnown() {
		return VCPReply{}, fmt.Errorf("%w: VCP code 0x%02X", ddcci.ErrUnknownData, payload[2])
	}
	if typ != VCPTypeSet && typ != VCPTypeMomentary {
		return VCPReply{}, fmt.Errorf("%w: VCP type 0x%02X", ddcci.ErrUnknownData, payload[3])
	}
	if result == ResultUnsupportedVCPCode {
		return VCPReply{}, fmt.Errorf("%w: %s", ErrUnsupportedVCPCode, code)
	}

	return VCPReply{
		Code:    code,
		Type:    typ,
		Maximum: binary.BigEndian.Uint16(payload[4:6]),
		Current: binary.BigEndian.Uint16(payload[6:8]),
	}, nil
}

// parseCapabilitiesReply returns the echoed offset and the chunk data
func parseCapabilitiesReply(payload []byte) (uint16, []byte, error) {
	if len(payload) < capabilitiesReplyMinLen {
		return 0, nil, fmt.Errorf("%w: %d", ddcci.ErrInvalidLength, len(payload))
	}
	if ddcci.Command(payload[0]) != ddcci.CmdCapabilitiesReply {
		return 0, nil, fmt.Errorf("%w: %s", ddcci.ErrUnexpectedCommand, ddcci.Command(payload[0]))
	}
	return binary.BigEndian.Uint16(payload[1:3]), payload[3:], nil
}
