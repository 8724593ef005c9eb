package bus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Tunnel messages carry bus transactions between a RemoteBus and an Agent.
//
// Request:  op(1) | addr(1) | length(2) | data(length, send only)
// Response: status(1) | length(2) | data(length)
//
// For a receive request, length is the number of bytes to read.
// An error response carries the error text as data.

type tunnelOp uint8

const (
	opSend    tunnelOp = 0x01
	opReceive tunnelOp = 0x02
)

const (
	statusOK    uint8 = 0x00
	statusError uint8 = 0x01
)

const maxTunnelData = 0xFFFF

// ErrInvalidMessage is returned for malformed tunnel messages
var ErrInvalidMessage = errors.New("invalid tunnel message")

// RemoteError is a failure reported by the bus on the far side of a tunnel
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "remote bus: " + e.Message
}

type tunnelRequest struct {
	op     tunnelOp
	addr   uint8
	length int
	data   []byte
}

func writeRequest(w io.Writer, req tunnelRequest) error {
	if req.length > maxTunnelData || len(req.data) > maxTunnelData {
		return fmt.Errorf("%w: length %d", ErrInvalidMessage, req.length)
	}

	msg := make([]byte, 4, 4+len(req.data))
	msg[0] = byte(req.op)
	msg[1] = req.addr
	binary.BigEndian.PutUint16(msg[2:], uint16(req.length))
	msg = append(msg, req.data...)

	_, err := w.Write(msg)
	return err
}

func readRequest(r io.Reader) (tunnelRequest, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return tunnelRequest{}, err
	}

	req := tunnelRequest{
		op:     tunnelOp(header[0]),
		addr:   header[1],
		length: int(binary.BigEndian.Uint16(header[2:])),
	}

	switch req.op {
	case opSend:
		req.data = make([]byte, req.length)
		if _, err := io.ReadFull(r, req.data); err != nil {
			return tunnelRequest{}, err
		}
	case opReceive:
	default:
		return tunnelRequest{}, fmt.Errorf("%w: op 0x%02X", ErrInvalidMessage, header[0])
	}

	return req, nil
}

func writeResponse(w io.Writer, data []byte, err error) error {
	status := statusOK
	if err != nil {
		status = statusError
		data = []byte(err.Error())
	}
	if len(data) > maxTunnelData {
		data = data[:maxTunnelData]
	}

	msg := make([]byte, 3, 3+len(data))
	msg[0] = status
	binary.BigEndian.PutUint16(msg[1:], uint16(len(data)))
	msg = append(msg, data...)

	_, werr := w.Write(msg)
	return werr
}

// readResponse returns the response data, a *RemoteError for error
// responses, or the stream error
func readResponse(r io.Reader) ([]byte, error) {
	header := make([]byte, 3)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	data := make([]byte, binary.BigEndian.Uint16(header[1:]))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	switch header[0] {
	case statusOK:
		return data, nil
	case statusError:
		return nil, &RemoteError{Message: string(data)}
	default:
		return nil, fmt.Errorf("%w: status 0x%02X", ErrInvalidMessage, header[0])
	}
}
