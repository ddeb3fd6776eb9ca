package updaters

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/transport"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

// Login manages the service session.
type Login struct {
	client *transport.Client
	logger *zerolog.Logger
}

var _ updater.LoginUpdater = (*Login)(nil)

// NewLogin creates a login updater.
func NewLogin(client *transport.Client, logger *zerolog.Logger) *Login {
	return &Login{client: client, logger: logger}
}

// CheckAuth implements updater.LoginUpdater. Only a 200 counts as authorized;
// any other status is a successful call reporting an anonymous session.
func (u *Login) CheckAuth(ctx context.Context) updater.AuthResult {
	resp, err := u.client.Get(ctx, constants.PathAuth)
	if err != nil {
		return updater.AuthResult{Result: failure(u.logger, "check_auth", err)}
	}
	transport.Drain(resp)
	return updater.AuthResult{Result: updater.Ok(), Authorized: resp.StatusCode == http.StatusOK}
}

// SubmitSignin implements updater.LoginUpdater.
func (u *Login) SubmitSignin(ctx context.Context, payload photos.LoginPayload) updater.Result {
	if err := payload.Validate(); err != nil {
		return failure(u.logger, "signin", err)
	}

	resp, err := u.client.PostJSON(ctx, constants.PathSignin, payload)
	if err != nil {
		return failure(u.logger, "signin", err)
	}
	if err := transport.CheckStatus(resp, "Signin"); err != nil {
		return failure(u.logger, "signin", err)
	}
	return updater.Ok()
}

// FetchProfile implements updater.LoginUpdater.
func (u *Login) FetchProfile(ctx context.Context) updater.ProfileResult {
	resp, err := u.client.Get(ctx, constants.PathProfile)
	if err != nil {
		return updater.ProfileResult{Result: failure(u.logger, "fetch_profile", err)}
	}

	var profile photos.Profile
	if err := transport.DecodeResponse(resp, "Profile", "user profile", &profile); err != nil {
		return updater.ProfileResult{Result: failure(u.logger, "fetch_profile", err)}
	}
	return updater.ProfileResult{Result: updater.Ok(), Profile: profile}
}

// Logout implements updater.LoginUpdater. The service's answer is not
// inspected; the local session cookie is dropped either way.
func (u *Login) Logout(ctx context.Context) updater.Result {
	defer u.client.ResetSession()

	resp, err := u.client.Get(ctx, constants.PathLogout)
	if err != nil {
		return failure(u.logger, "logout", err)
	}
	transport.Drain(resp)
	return updater.Ok()
}
