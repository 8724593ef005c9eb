package ddcci

import (
	"bytes"
	"errors"
	"testing"
)

// TestRequestSerialize tests request envelopes against known wire bytes
func TestRequestSerialize(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		want []byte
	}{
		{
			name: "Get VCP luminance",
			req:  NewRequest(CmdVCPRequest, 0x10),
			want: []byte{0x51, 0x82, 0x01, 0x10, 0xAC},
		},
		{
			name: "Set VCP luminance to 50",
			req:  NewRequest(CmdVCPSet, 0x10, 0x00, 0x32),
			want: []byte{0x51, 0x84, 0x03, 0x10, 0x00, 0x32, 0x9A},
		},
		{
			name: "Capabilities offset 0",
			req:  NewRequest(CmdCapabilitiesRequest, 0x00, 0x00),
			want: []byte{0x51, 0x83, 0xF3, 0x00, 0x00, 0x4F},
		},
		{
			name: "Save current settings",
			req:  NewRequest(CmdSaveCurrentSettings),
			want: []byte{0x51, 0x81, 0x0C, 0xB2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Serialize()
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Serialize() = % X, want % X", got, tt.want)
			}
		})
	}
}

// TestRequestPayloadTooLong tests the 127 byte payload limit
func TestRequestPayloadTooLong(t *testing.T) {
	req := NewRequest(CmdTableWrite, make([]byte, MaxPayloadLength)...)
	if _, err := req.Serialize(); !errors.Is(err, ErrPayloadTooLong) {
		t.Errorf("Serialize() error = %v, want %v", err, ErrPayloadTooLong)
	}

	req = NewRequest(CmdTableWrite, make([]byte, MaxPayloadLength-1)...)
	if _, err := req.Serialize(); err != nil {
		t.Errorf("Serialize() with max payload error = %v", err)
	}
}

// TestRequestRoundTrip tests Serialize followed by ParseRequest
func TestRequestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		args []byte
	}{
		{"No args", CmdIdentificationRequest, nil},
		{"One arg", CmdVCPRequest, []byte{0x12}},
		{"Offset", CmdCapabilitiesRequest, []byte{0x01, 0x20}},
		{"Long", CmdTableWrite, bytes.Repeat([]byte{0xA5}, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tt.cmd, tt.args...)
			data, err := req.Serialize()
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}

			parsed, err := ParseRequest(DisplayAddress, data)
			if err != nil {
				t.Fatalf("ParseRequest() error = %v", err)
			}
			if parsed.Command != tt.cmd {
				t.Errorf("Command = %s, want %s", parsed.Command, tt.cmd)
			}
			if parsed.Source != HostAddress {
				t.Errorf("Source = 0x%02X, want 0x%02X", parsed.Source, HostAddress)
			}
			if !bytes.Equal(parsed.Args, req.Args) {
				t.Errorf("Args = % X, want % X", parsed.Args, req.Args)
			}
		})
	}
}

// TestReplyRoundTrip tests EncodeReply followed by ParseReply
func TestReplyRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{0x02, 0x00, 0x10, 0x00, 0x00, 0x64, 0x00, 0x32},
		{0xE3, 0x00, 0x00},
		{0xE3, 0x00, 0x20, '(', 'p', 'r', 'o', 't', ')'},
		bytes.Repeat([]byte{0xFF}, MaxPayloadLength),
	}

	for _, payload := range payloads {
		frame, err := EncodeReply(DisplayAddress, payload)
		if err != nil {
			t.Fatalf("EncodeReply() error = %v", err)
		}

		got, err := ParseReply(frame, DisplayAddress, 1, MaxPayloadLength)
		if err != nil {
			t.Fatalf("ParseReply() error = %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("ParseReply() = % X, want % X", got, payload)
		}
	}
}

// TestParseReplyTrailingBytes tests that bytes past the declared length are ignored
func TestParseReplyTrailingBytes(t *testing.T) {
	frame, _ := EncodeReply(DisplayAddress, []byte{0xE3, 0x00, 0x00})
	buf := make([]byte, ReplyBufferSize(35))
	copy(buf, frame)
	for i := len(frame); i < len(buf); i++ {
		buf[i] = 0xFF
	}

	got, err := ParseReply(buf, DisplayAddress, 3, 35)
	if err != nil {
		t.Fatalf("ParseReply() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0xE3, 0x00, 0x00}) {
		t.Errorf("ParseReply() = % X", got)
	}
}

// TestParseReplyChecksumBitFlip flips every bit of the checksum byte
func TestParseReplyChecksumBitFlip(t *testing.T) {
	payload := []byte{0x02, 0x00, 0x10, 0x00, 0x00, 0x64, 0x00, 0x32}
	frame, err := EncodeReply(DisplayAddress, payload)
	if err != nil {
		t.Fatalf("EncodeReply() error = %v", err)
	}

	last := len(frame) - 1
	for bit := 0; bit < 8; bit++ {
		corrupt := append([]byte(nil), frame...)
		corrupt[last] ^= 1 << bit

		if _, err := ParseReply(corrupt, DisplayAddress, 8, 8); !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("bit %d: ParseReply() error = %v, want %v", bit, err, ErrChecksumMismatch)
		}
	}
}

// TestParseReplyLengthBeforeChecksum tests that the length range check runs first
func TestParseReplyLengthBeforeChecksum(t *testing.T) {
	frame, _ := EncodeReply(DisplayAddress, []byte{0x02, 0x00, 0x10})
	frame[len(frame)-1] ^= 0xFF // also corrupt the checksum

	tests := []struct {
		name     string
		min, max int
	}{
		{"Below range", 8, 8},
		{"Above range", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply(frame, DisplayAddress, tt.min, tt.max)
			if !errors.Is(err, ErrInvalidLength) {
				t.Errorf("ParseReply() error = %v, want %v", err, ErrInvalidLength)
			}
		})
	}
}

// TestParseReplyErrors tests remaining rejection paths
func TestParseReplyErrors(t *testing.T) {
	good, _ := EncodeReply(DisplayAddress, []byte{0x02, 0x00})
	wrongSource, _ := EncodeReply(0x6A, []byte{0x02, 0x00})

	tests := []struct {
		name    string
		buf     []byte
		wantErr error
	}{
		{"Empty", nil, ErrFrameTooShort},
		{"Truncated", good[:3], ErrFrameTooShort},
		{"Wrong source", wrongSource, ErrUnexpectedSource},
		{"Zero length", []byte{0x6E, 0x80, 0xBE}, ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply(tt.buf, DisplayAddress, 1, 8)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseReply() error = %v, want %v", err, tt.wantErr)
			}
			if !IsFrameError(err) {
				t.Errorf("IsFrameError(%v) = false", err)
			}
		})
	}
}

// TestCommandString tests opcode naming
func TestCommandString(t *testing.T) {
	if got := CmdCapabilitiesReply.String(); got != "CapabilitiesReply" {
		t.Errorf("String() = %q", got)
	}
	if got := Command(0x42).String(); got != "Command(0x42)" {
		t.Errorf("String() = %q", got)
	}
	if Command(0x42).IsKnown() {
		t.Error("IsKnown(0x42) = true")
	}
}
