package photomap

import (
	"context"

	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/store"
)

// Compile-time interface check to ensure proper implementation.
var _ Session = (*client)(nil)

// Session handles sign-in, authorization and logout.
type Session interface {
	// Start authorizes and then loads markers and hashtags
	Start(ctx context.Context) StartOutcome

	// Authorize checks the session and loads the profile
	Authorize(ctx context.Context) Outcome

	// SignIn submits credentials, authorizes, then refreshes markers
	SignIn(ctx context.Context, payload photos.LoginPayload) Outcome

	// Logout ends the session and clears the markers
	Logout(ctx context.Context) Outcome

	// CurrentSession returns the session state
	CurrentSession() store.Session
}

// StartOutcome reports each step of Start.
type StartOutcome struct {
	Auth     Outcome
	Markers  Outcome
	Hashtags Outcome
}

// Start runs the initial load: authorization first, then both refreshes.
func (c *client) Start(ctx context.Context) StartOutcome {
	var out StartOutcome
	out.Auth = c.Authorize(ctx)
	out.Markers = c.RefreshMarkers(ctx)
	out.Hashtags = c.RefreshHashtags(ctx)
	return out
}

// Authorize asks the service whether the session is valid and, if so,
// fetches the profile. The two calls are strictly sequential.
func (c *client) Authorize(ctx context.Context) Outcome {
	auth := c.loginUpdater.CheckAuth(ctx)
	if !auth.Success {
		c.report(auth.ErrorMessage)
		return OutcomeFailed
	}
	if !auth.Authorized {
		c.state.ClearSession()
		c.logger.Debug().Msg("Session not authorized")
		return OutcomeCleared
	}

	profile := c.loginUpdater.FetchProfile(ctx)
	if !profile.Success {
		c.report(profile.ErrorMessage)
		return OutcomeFailed
	}

	c.state.SetSession(profile.Profile)
	c.logger.Debug().Str("user", profile.Profile.ID).Msg("Authorized")
	return OutcomeRefreshed
}

// SignIn submits the credentials and authorizes on success. Markers are
// refreshed afterwards in both cases.
func (c *client) SignIn(ctx context.Context, payload photos.LoginPayload) Outcome {
	var outcome Outcome
	res := c.loginUpdater.SubmitSignin(ctx, payload)
	if res.Success {
		outcome = c.Authorize(ctx)
	} else {
		c.report(res.ErrorMessage)
		outcome = OutcomeFailed
	}
	c.RefreshMarkers(ctx)
	return outcome
}

// Logout ends the session on the service, clears it locally regardless of
// the answer, then refreshes markers, which clears them.
func (c *client) Logout(ctx context.Context) Outcome {
	outcome := OutcomeCleared
	res := c.loginUpdater.Logout(ctx)
	if !res.Success {
		c.report(res.ErrorMessage)
		outcome = OutcomeFailed
	}
	c.state.ClearSession()
	c.RefreshMarkers(ctx)
	return outcome
}

// CurrentSession returns the session state.
func (c *client) CurrentSession() store.Session {
	return c.state.Session()
}
