// Package session provides the sign-in step shared by CLI commands.
package session

import (
	"context"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
)

// ErrNotSignedIn is returned when no credentials are configured and the
// service does not recognize the session.
var ErrNotSignedIn = errors.New("not signed in: set PHOTOMAP_EMAIL and PHOTOMAP_PASSWORD or pass --email and --password")

// Open returns the app's engine with an authorized session. Configured
// credentials are submitted first; otherwise the existing session is
// checked.
func Open(ctx context.Context, app application.Application) (photomap.Client, error) {
	pm, err := app.Photomap()
	if err != nil {
		return nil, errors.WrapResource("create", "photomap", "", err)
	}
	if err := SignIn(ctx, pm, app.Credentials(), photos.Signin); err != nil {
		return nil, err
	}
	return pm, nil
}

// SignIn authorizes pm with creds, or checks the current session when creds
// are not configured.
func SignIn(ctx context.Context, pm photomap.Client, creds application.Credentials, typ photos.LoginType) error {
	if !creds.Configured() {
		out := pm.Authorize(ctx)
		if out == photomap.OutcomeCleared {
			return ErrNotSignedIn
		}
		return Check(pm, out)
	}
	payload := photos.LoginPayload{Type: typ, Email: creds.Email, Password: creds.Password}
	if err := payload.Validate(); err != nil {
		return err
	}
	return Check(pm, pm.SignIn(ctx, payload))
}

// Check turns a failed outcome into an error carrying the message from the
// engine's error slot, and acknowledges it.
func Check(pm photomap.Client, out photomap.Outcome) error {
	if out.OK() {
		return nil
	}
	state := pm.ErrorState()
	pm.Acknowledge()
	if !state.Active {
		return errors.New(out.String())
	}
	return errors.New(state.Message)
}
