// Package serve provides the command that runs the reference photo service.
package serve

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/server"
)

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "management",
		Aliases: []string{"server"},
		Short:   "Run the photo service",
		Long: `Serve runs the photo service the rest of photomap talks to.

Features:
  - Cookie sessions with sign-up and sign-in (bcrypt passwords)
  - Image upload with small, medium and large thumbnails
  - Titles, descriptions and hashtags stored in SQLite
  - A WebSocket change stream at /events for live clients
  - Per-IP rate limiting of sign-in attempts
  - CORS support for browser clients
  - Graceful shutdown on interrupt`,
		Example: `  # Start on the default port 8080 with data in ./data
  photomap serve

  # Keep sessions across restarts
  PHOTOMAP_SESSION_SECRET=$(openssl rand -hex 32) photomap serve --data /var/lib/photomap

  # Allow a browser client on another origin
  photomap serve --cors-origins http://localhost:5173`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd)
			if err != nil {
				return err
			}
			logger := app.Logger()

			logger.Info().
				Str("host", cfg.Host).
				Int("port", cfg.Port).
				Str("data", cfg.DataDir).
				Int("signin_rate_limit", cfg.SigninRateLimit).
				Dur("cache_ttl", cfg.CacheTTL).
				Msg("Starting photo service")

			srv, err := server.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			// cmd.Context() carries the signal handling from main.go
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().Int("port", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")
	cmd.Flags().String("data", defaults.DataDir, "Directory for the database and image files")
	cmd.Flags().String("session-secret", "", "Cookie signing secret (default $PHOTOMAP_SESSION_SECRET, random if unset)")
	cmd.Flags().Bool("cookie-secure", false, "Only send the session cookie over HTTPS")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")
	cmd.Flags().Int("signin-rate-limit", defaults.SigninRateLimit, "Sign-in attempts per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "How long listings stay cached")
	cmd.Flags().Int64("max-upload", defaults.MaxUploadSize, "Maximum upload request size in bytes")
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// parseConfig parses command flags into server configuration.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.Config{
		Host:            mustGetString(cmd, "host"),
		Port:            mustGetInt(cmd, "port"),
		DataDir:         mustGetString(cmd, "data"),
		SessionSecret:   mustGetString(cmd, "session-secret"),
		CookieSecure:    mustGetBool(cmd, "cookie-secure"),
		CORSOrigins:     mustGetStringSlice(cmd, "cors-origins"),
		SigninRateLimit: mustGetInt(cmd, "signin-rate-limit"),
		CacheTTL:        mustGetDuration(cmd, "cache-ttl"),
		MaxUploadSize:   mustGetInt64(cmd, "max-upload"),
		ReadTimeout:     mustGetDuration(cmd, "read-timeout"),
		WriteTimeout:    mustGetDuration(cmd, "write-timeout"),
		IdleTimeout:     mustGetDuration(cmd, "idle-timeout"),
	}

	// Override with environment variables
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		p, err := parsePort(envPort)
		if err != nil {
			return server.Config{}, err
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		cfg.Host = envHost
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("PHOTOMAP_SESSION_SECRET")
	}

	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetInt64(cmd *cobra.Command, name string) int64 {
	val, err := cmd.Flags().GetInt64(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
