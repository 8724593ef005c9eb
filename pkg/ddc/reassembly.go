package ddc

import (
	"bytes"
	"fmt"
	"strings"
)

// MaxCapabilitiesLength is the longest capability string whose chunks
// can still be addressed by the 16-bit offset field
const MaxCapabilitiesLength = 0xFFFF

// Reassembler concatenates capability chunks in offset order
type Reassembler struct {
	buffer   bytes.Buffer
	complete bool
}

// NewReassembler creates a new capabilities reassembler
func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Process adds a chunk. The offset must equal the number of bytes
// already received. An empty chunk completes the string.
func (r *Reassembler) Process(offset uint16, data []byte) (bool, error) {
	if r.complete {
		return true, nil
	}
	if int(offset) != r.buffer.Len() {
		return false, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedOffset, offset, r.buffer.Len())
	}
	if len(data) == 0 {
		r.complete = true
		return true, nil
	}
	if r.buffer.Len()+len(data) > MaxCapabilitiesLength {
		return false, fmt.Errorf("%w: %d bytes", ErrCapabilitiesTooLong, r.buffer.Len()+len(data))
	}

	r.buffer.Write(data)
	return false, nil
}

// Offset returns the offset of the next chunk to request
func (r *Reassembler) Offset() uint16 {
	return uint16(r.buffer.Len())
}

// Len returns the number of bytes received
func (r *Reassembler) Len() int {
	return r.buffer.Len()
}

// Complete returns true once the terminating empty chunk was seen
func (r *Reassembler) Complete() bool {
	return r.complete
}

// String returns the text before the first NUL, with invalid UTF-8
// sequences replaced
func (r *Reassembler) String() string {
	data := r.buffer.Bytes()
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

// Reset resets the reassembler state
func (r *Reassembler) Reset() {
	r.buffer.Reset()
	r.complete = false
}
