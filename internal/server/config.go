package server

import (
	"time"

	"github.com/agentstation/photomap/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// DataDir holds the SQLite database and the image files.
	DataDir string

	// Session settings. An empty secret gets a random one per process,
	// which signs everyone out on restart.
	SessionSecret string
	CookieSecure  bool

	// CORS settings
	CORSOrigins []string

	// Performance settings
	SigninRateLimit int // sign-in attempts per minute per IP (0 to disable)
	CacheTTL        time.Duration
	MaxUploadSize   int64

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            8080,
		DataDir:         "./data",
		CORSOrigins:     []string{},
		SigninRateLimit: 20,
		CacheTTL:        5 * time.Minute,
		MaxUploadSize:   constants.MaxUploadSize,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
	}
}
