// Package application provides the application interface for photomap commands.
//
// The Application interface is the contract between the app layer and the
// command implementations. Commands accept it rather than the concrete App so
// they can be tested against a Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            pm, err := app.Photomap()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use pm
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/photomap"
)

// Credentials are the configured sign-in details for the photo service.
type Credentials struct {
	Email    string
	Password string
}

// Configured reports whether both fields are set.
func (c Credentials) Configured() bool {
	return c.Email != "" && c.Password != ""
}

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Photomap returns the engine. Without options it returns the default
	// cached instance; with options it builds a new one.
	Photomap(opts ...photomap.Option) (photomap.Client, error)

	// Credentials returns the configured email and password.
	Credentials() Credentials

	// ServerURL returns the configured photo service root.
	ServerURL() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
