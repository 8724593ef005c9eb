package bus

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
	"golang.org/x/sync/errgroup"

	"avaneesh/ddc-go/pkg/internal/logger"
)

// AgentConfig configures an Agent
type AgentConfig struct {
	QUICAddress string      // "host:port" to accept QUIC tunnels on, empty to disable
	TCPAddress  string      // "host:port" to accept TCP tunnels on, empty to disable
	TLSConfig   *tls.Config // QUIC server config; nil generates a self-signed cert
}

// DefaultLeaseTimeout is how long a session keeps the local bus after its
// last transaction. It must exceed the longest DDC/CI command delay (200ms
// after a save).
const DefaultLeaseTimeout = 250 * time.Millisecond

// Agent exports a local Bus to RemoteBus clients. A session holds the local
// bus exclusively from its first transaction until it has been idle for the
// lease timeout; other sessions wait for the lease.
type Agent struct {
	bus          Bus
	lease        chan struct{}
	leaseTimeout time.Duration
	logger       logger.Logger

	sessions sync.WaitGroup
}

// NewAgent creates an agent serving b
func NewAgent(b Bus, log logger.Logger) *Agent {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Agent{
		bus:          b,
		lease:        make(chan struct{}, 1),
		leaseTimeout: DefaultLeaseTimeout,
		logger:       log,
	}
}

// Serve listens on the configured addresses until ctx is cancelled
func (a *Agent) Serve(ctx context.Context, config AgentConfig) error {
	if config.QUICAddress == "" && config.TCPAddress == "" {
		return fmt.Errorf("no listen address configured")
	}

	g, ctx := errgroup.WithContext(ctx)

	if config.TCPAddress != "" {
		ln, err := net.Listen("tcp", config.TCPAddress)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", config.TCPAddress, err)
		}
		a.logger.Info("Agent: accepting TCP tunnels on %s", ln.Addr())
		g.Go(func() error { return a.ServeTCP(ctx, ln) })
	}

	if config.QUICAddress != "" {
		tlsConfig := config.TLSConfig
		if tlsConfig == nil {
			var err error
			tlsConfig, err = GenerateTLSConfig()
			if err != nil {
				return fmt.Errorf("failed to generate TLS config: %w", err)
			}
		}

		ln, err := quic.ListenAddr(config.QUICAddress, tlsConfig, nil)
		if err != nil {
			return fmt.Errorf("failed to create QUIC listener: %w", err)
		}
		a.logger.Info("Agent: accepting QUIC tunnels on %s", ln.Addr())
		g.Go(func() error { return a.ServeQUIC(ctx, ln) })
	}

	return g.Wait()
}

// ServeTCP accepts tunnels on ln until ctx is cancelled. ln is closed on return.
func (a *Agent) ServeTCP(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				a.sessions.Wait()
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		a.sessions.Add(1)
		go func() {
			defer a.sessions.Done()
			defer conn.Close()
			stop := context.AfterFunc(ctx, func() { conn.Close() })
			defer stop()
			a.ServeConn(ctx, conn, conn.RemoteAddr().String())
		}()
	}
}

// ServeQUIC accepts tunnels on ln until ctx is cancelled. Every stream
// of every connection is an independent session. ln is closed on return.
func (a *Agent) ServeQUIC(ctx context.Context, ln *quic.Listener) error {
	defer ln.Close()

	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				a.sessions.Wait()
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		a.sessions.Add(1)
		go func() {
			defer a.sessions.Done()
			a.acceptStreams(ctx, conn)
		}()
	}
}

func (a *Agent) acceptStreams(ctx context.Context, conn *quic.Conn) {
	defer conn.CloseWithError(0, "agent closed")

	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}

		a.sessions.Add(1)
		go func() {
			defer a.sessions.Done()
			defer stream.Close()
			a.ServeConn(ctx, stream, conn.RemoteAddr().String())
			stream.CancelRead(0)
		}()
	}
}

// ServeConn handles tunnel requests on rw until it fails or reaches EOF
func (a *Agent) ServeConn(ctx context.Context, rw io.ReadWriter, peer string) {
	session := uuid.New()
	a.logger.Info("Agent: session %s opened from %s", session, peer)
	defer a.logger.Info("Agent: session %s closed", session)

	requests := make(chan tunnelRequest)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			req, err := readRequest(rw)
			if err != nil {
				readErr <- err
				return
			}
			select {
			case requests <- req:
			case <-done:
				return
			}
		}
	}()

	idle := time.NewTimer(a.leaseTimeout)
	idle.Stop()
	defer idle.Stop()

	held := false
	defer func() {
		if held {
			a.release()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-readErr:
			if !errors.Is(err, io.EOF) {
				a.logger.Warn("Agent: session %s: %v", session, err)
			}
			return

		case <-idle.C:
			if held {
				a.release()
				held = false
				a.logger.Debug("Agent: session %s released the bus", session)
			}

		case req := <-requests:
			if !held {
				if err := a.acquire(ctx); err != nil {
					return
				}
				held = true
				a.logger.Debug("Agent: session %s holds the bus", session)
			}

			data, err := a.execute(req)
			if err != nil {
				a.logger.Debug("Agent: session %s: op 0x%02X addr 0x%02X failed: %v", session, req.op, req.addr, err)
			}
			if err := writeResponse(rw, data, err); err != nil {
				a.logger.Warn("Agent: session %s: write: %v", session, err)
				return
			}
			idle.Reset(a.leaseTimeout)
		}
	}
}

func (a *Agent) acquire(ctx context.Context) error {
	select {
	case a.lease <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Agent) release() {
	<-a.lease
}

// execute runs one transaction. The caller holds the lease.
func (a *Agent) execute(req tunnelRequest) ([]byte, error) {
	switch req.op {
	case opSend:
		logger.Frame(a.logger, "TX", req.addr, req.data)
		return nil, a.bus.Send(req.addr, req.data)
	default:
		data, err := a.bus.Receive(req.addr, req.length)
		if err == nil {
			logger.Frame(a.logger, "RX", req.addr, data)
		}
		return data, err
	}
}
