// Package auth provides the commands that manage the photo service session.
package auth

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
)

// Status is what auth status prints.
type Status struct {
	Server        string `json:"server" yaml:"server"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	UserID        string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
}

// NewCommand creates the auth command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		GroupID: "management",
		Short:   "Manage the photo service session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newSignupCommand(app))
	cmd.AddCommand(newLogoutCommand(app))

	return cmd
}

func newStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Sign in with the configured credentials and show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pm, err := session.Open(cmd.Context(), app)
			switch {
			case errors.Is(err, session.ErrNotSignedIn):
				return write(cmd, app, Status{Server: app.ServerURL()})
			case err != nil:
				return err
			}
			return write(cmd, app, status(app, pm))
		},
	}
}

func newSignupCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an account with the configured credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds := app.Credentials()
			if !creds.Configured() {
				return session.ErrNotSignedIn
			}
			pm, err := app.Photomap()
			if err != nil {
				return err
			}
			if err := session.SignIn(cmd.Context(), pm, creds, photos.Signup); err != nil {
				return err
			}
			return write(cmd, app, status(app, pm))
		},
	}
}

func newLogoutCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the photo service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pm, err := session.Open(ctx, app)
			if err != nil {
				return err
			}
			if err := session.Check(pm, pm.Logout(ctx)); err != nil {
				return err
			}
			cmd.Println("Signed out")
			return nil
		},
	}
}

func status(app application.Application, pm photomap.Client) Status {
	cur := pm.CurrentSession()
	return Status{
		Server:        app.ServerURL(),
		Authenticated: cur.Authenticated,
		Email:         cur.Profile.Email,
		UserID:        cur.Profile.ID,
	}
}

func write(cmd *cobra.Command, app application.Application, st Status) error {
	format := output.Format(app.OutputFormat())
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), st)
}
