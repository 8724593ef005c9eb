package bus

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

// DialConfig configures a tunnel client
type DialConfig struct {
	Address   string        // Agent "host:port"
	Timeout   time.Duration // Per transaction timeout (0 = 5s)
	TLSConfig *tls.Config   // QUIC only; nil accepts a self-signed agent
}

func (c *DialConfig) setDefaults() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	return nil
}

// DialQUIC connects to an Agent over QUIC and opens one tunnel stream
func DialQUIC(ctx context.Context, config DialConfig) (*RemoteBus, error) {
	if err := config.setDefaults(); err != nil {
		return nil, err
	}

	udpAddr, err := net.ResolveUDPAddr("udp", "0.0.0.0:0")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve local UDP address: %w", err)
	}

	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to create UDP socket: %w", err)
	}

	remoteAddr, err := net.ResolveUDPAddr("udp", config.Address)
	if err != nil {
		udpConn.Close()
		return nil, fmt.Errorf("failed to resolve remote address %s: %w", config.Address, err)
	}

	conn, err := quic.Dial(ctx, udpConn, remoteAddr, clientTLSConfig(config.TLSConfig), nil)
	if err != nil {
		udpConn.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Address, err)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(0, "failed to open stream")
		udpConn.Close()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	b := NewRemoteBus(stream, config.Timeout)
	b.onClose = func() error {
		conn.CloseWithError(0, "bus closed")
		return udpConn.Close()
	}
	return b, nil
}

// DialTCP connects to an Agent over TCP
func DialTCP(ctx context.Context, config DialConfig) (*RemoteBus, error) {
	if err := config.setDefaults(); err != nil {
		return nil, err
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.Address, err)
	}

	return NewRemoteBus(conn, config.Timeout), nil
}
