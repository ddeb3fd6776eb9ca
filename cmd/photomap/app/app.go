// Package app provides the application context and dependency management
// for the photomap CLI: configuration, logging, and a lazily created
// synchronization engine shared by every command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
)

// App represents the photomap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// engine instance (lazy-initialized, singleton)
	mu       sync.RWMutex
	photomap photomap.Client
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested format, or table on a terminal and
// JSON when piped.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Credentials returns the configured sign-in details.
func (a *App) Credentials() application.Credentials {
	return application.Credentials{Email: a.config.Email, Password: a.config.Password}
}

// ServerURL returns the configured photo service root.
func (a *App) ServerURL() string {
	return a.config.ServerURL
}

// Photomap returns the engine. Without options the shared instance is
// created lazily and reused; with options a new instance is built from the
// configuration plus opts and is not cached.
func (a *App) Photomap(opts ...photomap.Option) (photomap.Client, error) {
	if len(opts) > 0 {
		pm, err := photomap.New(append(a.buildOptions(), opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "photomap", "with custom options", err)
		}
		return pm, nil
	}

	a.mu.RLock()
	if a.photomap != nil {
		pm := a.photomap
		a.mu.RUnlock()
		return pm, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.photomap != nil {
		return a.photomap, nil
	}

	pm, err := photomap.New(a.buildOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "photomap", "", err)
	}
	a.photomap = pm
	return pm, nil
}

// Shutdown stops background refreshes of the shared engine.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	pm := a.photomap
	a.mu.RUnlock()

	if pm != nil {
		if err := pm.AutoUpdatesOff(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop auto-updates during shutdown")
		}
	}

	return nil
}

// buildOptions constructs engine options from the app configuration.
func (a *App) buildOptions() []photomap.Option {
	opts := []photomap.Option{
		photomap.WithServer(a.config.ServerURL),
		photomap.WithLogger(a.logger),
		photomap.WithHashtags(a.config.HashtagsEnabled),
		photomap.WithAutoUpdateInterval(a.config.RefreshInterval),
	}
	if a.config.HTTPTimeout > 0 {
		opts = append(opts, photomap.WithHTTPTimeout(a.config.HTTPTimeout))
	}
	if size, err := photos.ParseThumbSize(a.config.ThumbSize); err == nil {
		opts = append(opts, photomap.WithThumbSize(size))
	} else {
		a.logger.Warn().Str("thumb_size", a.config.ThumbSize).Msg("Unknown thumbnail size, using small")
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithPhotomap sets a custom engine instance (useful for testing).
func WithPhotomap(pm photomap.Client) Option {
	return func(a *App) error {
		a.photomap = pm
		return nil
	}
}
