// Command ddcd serves DDC/CI displays over HTTP and exports local buses
// to remote clients.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"avaneesh/ddc-go/pkg/bus"
	"avaneesh/ddc-go/pkg/capcache"
	"avaneesh/ddc-go/pkg/config"
	"avaneesh/ddc-go/pkg/ddc"
	"avaneesh/ddc-go/pkg/httpapi"
)

// Application represents the daemon
type Application struct {
	config   *config.Config
	logger   *ddc.ZapLogger
	log      *zap.Logger
	manager  *ddc.Manager
	cache    *capcache.Cache
	server   *httpapi.Server
	agent    *bus.Agent
	agentBus bus.Bus
}

func main() {
	configPath := pflag.StringP("config", "c", "", "configuration file")
	frameDebug := pflag.Bool("frame-debug", false, "log hex dumps of every frame")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApplication(ctx, *configPath, *frameDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		app.log.Error("Daemon stopped with error", zap.Error(err))
		app.logger.Sync()
		os.Exit(1)
	}
	app.logger.Sync()
}

// NewApplication creates a new application instance
func NewApplication(ctx context.Context, configPath string, frameDebug bool) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if frameDebug {
		cfg.Logging.Level = "debug"
		ddc.EnableFrameDebug(true)
	}
	logger, err := ddc.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	ddc.SetDefaultLogger(logger)

	app := &Application{
		config:  cfg,
		logger:  logger,
		log:     logger.Zap().Named("ddcd"),
		manager: ddc.NewManagerWithLogger(logger),
	}

	if err := app.initializeCache(); err != nil {
		return nil, err
	}
	if err := app.initializeDisplays(ctx); err != nil {
		app.manager.Shutdown()
		return nil, err
	}
	if err := app.initializeAgent(ctx); err != nil {
		app.manager.Shutdown()
		return nil, err
	}
	app.initializeServer()

	return app, nil
}

func (app *Application) initializeCache() error {
	if !app.config.Cache.Enabled {
		return nil
	}

	cache, err := capcache.Open(app.config.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to open capability cache: %w", err)
	}
	app.cache = cache
	app.log.Info("Capability cache opened", zap.String("path", cache.Path()), zap.Int("entries", cache.Len()))
	return nil
}

// initializeDisplays opens every configured display. A display that
// cannot be opened is logged and skipped.
func (app *Application) initializeDisplays(ctx context.Context) error {
	for _, dc := range app.config.Displays {
		if _, err := app.manager.Open(ctx, dc); err != nil {
			app.log.Warn("Failed to open display",
				zap.String("id", dc.ID),
				zap.String("transport", dc.Transport),
				zap.String("device", dc.Device),
				zap.Error(err),
			)
			continue
		}
		app.log.Info("Display opened",
			zap.String("id", dc.ID),
			zap.String("transport", dc.Transport),
			zap.String("device", dc.Device),
		)
	}

	if len(app.config.Displays) > 0 && app.manager.DisplayCount() == 0 {
		return fmt.Errorf("no configured display could be opened")
	}
	return nil
}

func (app *Application) initializeAgent(ctx context.Context) error {
	if !app.config.Agent.Enabled {
		return nil
	}

	b, err := ddc.OpenBus(ctx, app.config.Agent.Bus)
	if err != nil {
		return fmt.Errorf("failed to open agent bus: %w", err)
	}
	app.agentBus = b
	app.agent = bus.NewAgent(b, app.logger)
	return nil
}

func (app *Application) agentTLSConfig() (*tls.Config, error) {
	if app.config.Agent.CertFile == "" {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(app.config.Agent.CertFile, app.config.Agent.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent certificate: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{bus.TunnelProtocol},
	}, nil
}

func (app *Application) initializeServer() {
	if !app.config.HTTP.Enabled {
		return
	}

	app.server = httpapi.NewServer(httpapi.Config{
		Listen:       app.config.HTTP.Listen,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		Mode:         app.config.HTTP.Mode,
	}, app.manager, app.cache, app.logger)
}

// Run serves until ctx is cancelled or a component fails
func (app *Application) Run(ctx context.Context) error {
	defer app.shutdown()

	if app.server == nil && app.agent == nil {
		return fmt.Errorf("neither http nor agent is enabled")
	}

	g, ctx := errgroup.WithContext(ctx)

	if app.server != nil {
		g.Go(func() error { return app.server.Serve(ctx) })
	}

	if app.agent != nil {
		tlsConfig, err := app.agentTLSConfig()
		if err != nil {
			return err
		}
		g.Go(func() error {
			return app.agent.Serve(ctx, bus.AgentConfig{
				QUICAddress: app.config.Agent.QUICListen,
				TCPAddress:  app.config.Agent.TCPListen,
				TLSConfig:   tlsConfig,
			})
		})
	}

	app.log.Info("Daemon started",
		zap.Strings("displays", app.manager.IDs()),
		zap.Bool("http", app.server != nil),
		zap.Bool("agent", app.agent != nil),
	)
	return g.Wait()
}

func (app *Application) shutdown() {
	app.log.Info("Shutting down")
	app.manager.Shutdown()
	if app.agentBus != nil {
		if err := app.agentBus.Close(); err != nil {
			app.log.Warn("Failed to close agent bus", zap.Error(err))
		}
	}
}
