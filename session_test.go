package photomap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/photos"
)

func TestAuthorize(t *testing.T) {
	svc := newFakeService()
	c := newTestClient(t, svc)

	s := c.CurrentSession()
	assert.True(t, s.Authenticated)
	assert.Equal(t, "u1", s.Profile.ID)
	assert.Equal(t, int32(1), svc.profileCalls.Load())
}

func TestAuthorizeNotAuthorized(t *testing.T) {
	svc := newFakeService()
	c := newTestClient(t, svc)

	svc.set(func(f *fakeService) { f.authorized = false })
	assert.Equal(t, OutcomeCleared, c.Authorize(context.Background()))
	assert.False(t, c.CurrentSession().Authenticated)
	assert.Equal(t, int32(1), svc.profileCalls.Load(), "profile only fetched when authorized")
	assert.False(t, c.ErrorState().Active)
}

func TestAuthorizeFailures(t *testing.T) {
	svc := newFakeService()
	svc.authErr = "Looks like the server is down (connection refused)."
	c := newTestClient(t, svc)

	assert.False(t, c.CurrentSession().Authenticated)
	assert.Equal(t, "Looks like the server is down (connection refused).", c.ErrorState().Message)

	svc.set(func(f *fakeService) { f.authErr = ""; f.profileErr = "Profile: Unauthorized" })
	assert.Equal(t, OutcomeFailed, c.Authorize(context.Background()))
	assert.False(t, c.CurrentSession().Authenticated)
	assert.Equal(t, "Profile: Unauthorized", c.ErrorState().Message)
}

func TestSignIn(t *testing.T) {
	svc := newFakeService()
	svc.authorized = false
	svc.markers = []photos.Marker{mk("m1", 1)}
	c := newTestClient(t, svc)
	require.False(t, c.CurrentSession().Authenticated)

	out := c.SignIn(context.Background(), photos.LoginPayload{Type: photos.Signin, Email: "bo@example.com", Password: "pw"})
	assert.Equal(t, OutcomeRefreshed, out)
	assert.Equal(t, "bo@example.com", c.CurrentSession().Profile.Email)
	assert.Len(t, c.Snapshot().Markers, 1)
}

func TestSignInFailureStillRefreshes(t *testing.T) {
	svc := newFakeService()
	svc.authorized = false
	svc.signinErr = "Signin: wrong password; Unauthorized"
	c := newTestClient(t, svc)

	out := c.SignIn(context.Background(), photos.LoginPayload{Type: photos.Signin, Email: "a@b.c", Password: "x"})
	assert.Equal(t, OutcomeFailed, out)
	assert.Equal(t, "Signin: wrong password; Unauthorized", c.ErrorState().Message)
	assert.Empty(t, c.Snapshot().Markers)
	assert.Equal(t, int32(0), svc.markerCalls.Load(), "refresh ran but was short-circuited")
}

func TestLogout(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1), mk("m2", 2)}
	c := loadedClient(t, svc)
	require.Len(t, c.Snapshot().Markers, 2)

	assert.Equal(t, OutcomeCleared, c.Logout(context.Background()))

	snap := c.Snapshot()
	assert.Empty(t, snap.Markers)
	assert.Empty(t, snap.SelectedID)
	assert.False(t, snap.Session.Authenticated)
	assert.Equal(t, photos.Profile{}, snap.Session.Profile)
	assert.Equal(t, int32(1), svc.logoutCalls.Load())
}

func TestLogoutFailureStillClearsSession(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	svc.logoutErr = "Looks like the server is down (EOF)."
	c := loadedClient(t, svc)

	assert.Equal(t, OutcomeFailed, c.Logout(context.Background()))
	assert.False(t, c.CurrentSession().Authenticated)
	assert.Empty(t, c.Snapshot().Markers)
	assert.True(t, c.ErrorState().Active)
}

func TestStart(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	svc.hashtags = []string{"x"}
	c, err := New(WithUpdaters(svc), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	out := c.Start(context.Background())
	assert.Equal(t, StartOutcome{Auth: OutcomeRefreshed, Markers: OutcomeRefreshed, Hashtags: OutcomeRefreshed}, out)
	assert.Equal(t, []string{"x"}, c.HashtagVocabulary())

	svc.set(func(f *fakeService) { f.authorized = false })
	out = c.Start(context.Background())
	assert.Equal(t, StartOutcome{Auth: OutcomeCleared, Markers: OutcomeCleared, Hashtags: OutcomeCleared}, out)
}
