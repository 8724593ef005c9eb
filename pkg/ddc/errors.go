package ddc

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedVCPCode  = errors.New("display does not support VCP code")
	ErrUnexpectedVCPCode   = errors.New("reply for unexpected VCP code")
	ErrUnexpectedOffset    = errors.New("capabilities reply with unexpected offset")
	ErrCapabilitiesTooLong = errors.New("capability string exceeds 16-bit offset range")
	ErrDisplayClosed       = errors.New("display closed")
	ErrDisplayNotFound     = errors.New("display not found")
	ErrDisplayExists       = errors.New("display already exists")
)

// TransportError wraps a failed bus transaction
type TransportError struct {
	Op      string // "send" or "receive"
	Address uint8  // Bus address
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s 0x%02X: %v", e.Op, e.Address, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err came from the bus
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocolError reports whether the display answered with a well formed
// reply that rejects or contradicts the request
func IsProtocolError(err error) bool {
	return errors.Is(err, ErrUnsupportedVCPCode) ||
		errors.Is(err, ErrUnexpectedVCPCode) ||
		errors.Is(err, ErrUnexpectedOffset) ||
		errors.Is(err, ErrCapabilitiesTooLong)
}
