package ddcci

import (
	"bytes"
	"fmt"
)

// Request represents a host to display DDC/CI message
type Request struct {
	Destination uint8   // Bus address the envelope is written to
	Source      uint8   // Source byte (host address)
	Command     Command // Opcode
	Args        []byte  // Opcode arguments
}

// NewRequest creates a request from the host to the display
func NewRequest(cmd Command, args ...byte) *Request {
	return &Request{
		Destination: DisplayAddress,
		Source:      HostAddress,
		Command:     cmd,
		Args:        args,
	}
}

// Payload returns opcode followed by arguments
func (r *Request) Payload() []byte {
	payload := make([]byte, 0, 1+len(r.Args))
	payload = append(payload, byte(r.Command))
	return append(payload, r.Args...)
}

// Serialize converts the request to its wire envelope:
// source, 0x80|length, opcode, args, checksum
func (r *Request) Serialize() ([]byte, error) {
	payload := r.Payload()
	if len(payload) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLong, len(payload))
	}

	frame := make([]byte, 0, len(payload)+EnvelopeOverhead)
	frame = append(frame, r.Source, LengthMarker|byte(len(payload)))
	frame = append(frame, payload...)
	frame = append(frame, Checksum(r.Destination, frame))

	return frame, nil
}

// ParseRequest parses a request envelope written to dest
func ParseRequest(dest uint8, frame []byte) (*Request, error) {
	if len(frame) < EnvelopeOverhead+1 {
		return nil, ErrFrameTooShort
	}

	length := int(frame[1] & LengthMask)
	if length < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if len(frame) < length+EnvelopeOverhead {
		return nil, ErrFrameTooShort
	}

	frame = frame[:length+EnvelopeOverhead]
	if !VerifyChecksum(dest, frame) {
		return nil, ErrChecksumMismatch
	}

	args := make([]byte, length-1)
	copy(args, frame[3:length+2])

	return &Request{
		Destination: dest,
		Source:      frame[0],
		Command:     Command(frame[2]),
		Args:        args,
	}, nil
}

// String returns a string representation of the request
func (r *Request) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Request{Dst=0x%02X, Src=0x%02X, ", r.Destination, r.Source))
	buf.WriteString(fmt.Sprintf("Cmd=%s, ", r.Command))
	buf.WriteString(fmt.Sprintf("Args=% X}", r.Args))
	return buf.String()
}

// ReplyBufferSize returns the number of bytes to read for a reply whose
// declared length may be as large as maxLen
func ReplyBufferSize(maxLen int) int {
	return maxLen + EnvelopeOverhead
}

// EncodeReply builds a display to host reply envelope around payload
func EncodeReply(source uint8, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if len(payload) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLong, len(payload))
	}

	frame := make([]byte, 0, len(payload)+EnvelopeOverhead)
	frame = append(frame, source, LengthMarker|byte(len(payload)))
	frame = append(frame, payload...)
	frame = append(frame, Checksum(ReplyChecksumSeed, frame))

	return frame, nil
}

// ParseReply validates a reply envelope and returns its payload.
// The declared length is checked against [minLen, maxLen] before the
// checksum is verified; the source byte is checked last.
func ParseReply(buf []byte, source uint8, minLen, maxLen int) ([]byte, error) {
	if len(buf) < 2 {
		return nil, ErrFrameTooShort
	}

	length := int(buf[1] & LengthMask)
	if length < minLen || length > maxLen {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLength, length, minLen, maxLen)
	}
	if len(buf) < length+EnvelopeOverhead {
		return nil, ErrFrameTooShort
	}

	frame := buf[:length+EnvelopeOverhead]
	if !VerifyChecksum(ReplyChecksumSeed, frame) {
		return nil, ErrChecksumMismatch
	}
	if frame[0] != source {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnexpectedSource, frame[0])
	}

	payload := make([]byte, length)
	copy(payload, frame[2:length+2])
	return payload, nil
}
