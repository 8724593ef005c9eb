// Package httpapi exposes the displays of a ddc.Manager over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"avaneesh/ddc-go/pkg/capcache"
	"avaneesh/ddc-go/pkg/ddc"
)

// Config configures the HTTP server
type Config struct {
	Listen       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Mode         string // gin mode, empty for release
}

// Server serves the control API
type Server struct {
	config  Config
	manager *ddc.Manager
	cache   *capcache.Cache
	logger  ddc.Logger
	engine  *gin.Engine
}

// NewServer creates a server for manager. cache may be nil.
func NewServer(config Config, manager *ddc.Manager, cache *capcache.Cache, log ddc.Logger) *Server {
	if log == nil {
		log = ddc.NewNoOpLogger()
	}
	if config.Mode == "" {
		config.Mode = gin.ReleaseMode
	}
	gin.SetMode(config.Mode)

	s := &Server{
		config:  config,
		manager: manager,
		cache:   cache,
		logger:  log,
		engine:  gin.New(),
	}

	s.engine.Use(requestIDMiddleware(), recoveryMiddleware(log), loggingMiddleware(log))
	s.RegisterRoutes(s.engine.Group(""))
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// RegisterRoutes registers the display routes
func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", s.health)

	displays := router.Group("/displays")
	displays.GET("", s.listDisplays)
	displays.GET("/:id", s.getDisplay)
	displays.GET("/:id/capabilities", s.getCapabilities)
	displays.DELETE("/:id/capabilities", s.forgetCapabilities)
	displays.GET("/:id/vcp/:code", s.getVCP)
	displays.PUT("/:id/vcp/:code", s.setVCP)
	displays.POST("/:id/save", s.save)
}

// Serve listens on the configured address until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("HTTP API stopped")
	return nil
}
