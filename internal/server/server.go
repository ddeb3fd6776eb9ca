// Package server is the reference photo service: the HTTP endpoints the
// photomap client talks to, backed by SQLite and image files on disk. It
// exists for end-to-end tests and local use through `photomap serve`.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/server/cache"
	"github.com/agentstation/photomap/internal/server/gallery"
	ws "github.com/agentstation/photomap/internal/server/websocket"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/logging"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	db        *gallery.Store
	cache     *cache.Cache
	wsHub     *ws.Hub
	echo      *echo.Echo
	logger    *zerolog.Logger
	config    Config
	secret    []byte
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// New opens the data directory and builds the service.
func New(cfg Config, logger *zerolog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = constants.MaxUploadSize
	}
	if cfg.DataDir == "" {
		return nil, errors.NewConfigError("server", "data directory is required", nil)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.NewConfigError("server", "cannot generate session secret", err)
		}
		logger.Warn().Msg("no session secret configured, sessions end on restart")
	}

	db, err := gallery.Open(filepath.Join(cfg.DataDir, "photomap.db"))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		db:        db,
		cache:     cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		wsHub:     ws.NewHub(logger),
		logger:    logger,
		config:    cfg,
		secret:    secret,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	s.echo = s.setupRouter()

	logger.Debug().Str("data_dir", cfg.DataDir).Msg("server instance created")
	return s, nil
}

// Start starts background services.
func (s *Server) Start() {
	go s.wsHub.Run(s.ctx)
}

// Handler returns the configured http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// ListenAndServe starts background services and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.Start()

	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("photo service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = s.Shutdown(context.Background())
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("HTTP shutdown incomplete")
	}
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops background services and closes the database.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("shutting down photo service")
	s.cancel()
	return s.db.Close()
}

// ImageDir is where image files are stored.
func (s *Server) ImageDir() string {
	return filepath.Join(s.config.DataDir, "images")
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}
