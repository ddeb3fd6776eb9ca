package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/internal/server"
	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := server.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	cfg.SigninRateLimit = 0

	s, err := server.New(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	s.Start()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown(context.Background())
	})
	return ts
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newPhotomap(t *testing.T, url string, opts ...photomap.Option) photomap.Client {
	t.Helper()
	opts = append([]photomap.Option{
		photomap.WithServer(url),
		photomap.WithLogger(logging.NewNopLogger()),
	}, opts...)
	pm, err := photomap.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pm.AutoUpdatesOff() })
	return pm
}

func TestEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	pm := newPhotomap(t, ts.URL)

	// not signed in yet
	assert.Equal(t, photomap.OutcomeCleared, pm.Authorize(ctx))
	assert.Equal(t, photomap.OutcomeCleared, pm.RefreshMarkers(ctx))

	out := pm.SignIn(ctx, photos.LoginPayload{Type: photos.Signup, Email: "ana@example.com", Password: "s3cret"})
	require.Equal(t, photomap.OutcomeRefreshed, out, pm.ErrorState().Message)
	sess := pm.CurrentSession()
	require.True(t, sess.Authenticated)
	assert.Equal(t, "ana@example.com", sess.Profile.Email)

	// upload two positioned photos and one without a position
	out = pm.Upload(ctx, []updater.File{
		{Name: "lake.png", Content: bytes.NewReader(pngImage(t, 300, 200)), Position: &photos.LatLng{Lat: -13.5, Lng: -71.9}},
		{Name: "city.png", Content: bytes.NewReader(pngImage(t, 40, 40)), Position: &photos.LatLng{Lat: 48.85, Lng: 2.35}},
		{Name: "nowhere.png", Content: bytes.NewReader(pngImage(t, 10, 10))},
	})
	require.Equal(t, photomap.OutcomeCommitted, out, pm.ErrorState().Message)

	snap := pm.Snapshot()
	require.Len(t, snap.Markers, 2, "images without a position never become markers")
	lake := snap.Markers[0]
	assert.Equal(t, "lake", lake.Title)
	assert.Equal(t, lake.ID, snap.SelectedID)
	assert.True(t, strings.HasPrefix(lake.ImageThumbURL, ts.URL+"/images/"))

	// the thumbnail is served and scaled
	resp, err := http.Get(lake.ImageThumbURL)
	require.NoError(t, err)
	thumb, _, err := image.Decode(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, 64, thumb.Bounds().Dx())

	// edit, tag, filter
	pm.ApplyTitle(lake.ID, "Titicaca")
	require.Equal(t, photomap.OutcomeCommitted, pm.CommitTitle(ctx, lake.ID))
	require.Equal(t, photomap.OutcomeCommitted, pm.AddHashtags(ctx, lake.ID, []string{"peru", "water"}))
	assert.Equal(t, []string{"peru", "water"}, pm.HashtagVocabulary())

	out, err = pm.ChangeFilter(ctx, "peru")
	require.NoError(t, err)
	require.Equal(t, photomap.OutcomeRefreshed, out)
	snap = pm.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, "Titicaca", snap.Markers[0].Title)
	assert.Equal(t, []string{"peru", "water"}, snap.Markers[0].Hashtags)

	require.Equal(t, photomap.OutcomeCommitted, pm.RemoveHashtag(ctx, lake.ID, "peru"))
	assert.Equal(t, []string{"water"}, pm.HashtagVocabulary())
	assert.Equal(t, "", pm.Snapshot().HashtagFilter, "filter dropped once its tag is gone")

	// logout clears everything
	assert.Equal(t, photomap.OutcomeCleared, pm.Logout(ctx))
	assert.False(t, pm.CurrentSession().Authenticated)
	assert.Empty(t, pm.Snapshot().Markers)
	assert.False(t, pm.ErrorState().Active)
}

func TestSigninErrors(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	pm := newPhotomap(t, ts.URL)
	out := pm.SignIn(ctx, photos.LoginPayload{Type: photos.Signin, Email: "nobody@example.com", Password: "x"})
	assert.Equal(t, photomap.OutcomeFailed, out)
	assert.Equal(t, "Signin: Invalid email or password; Unauthorized", pm.ErrorState().Message)

	require.Equal(t, photomap.OutcomeRefreshed,
		pm.SignIn(ctx, photos.LoginPayload{Type: photos.Signup, Email: "ana@example.com", Password: "pw"}))

	other := newPhotomap(t, ts.URL)
	out = other.SignIn(ctx, photos.LoginPayload{Type: photos.Signup, Email: "ANA@example.com", Password: "pw"})
	assert.Equal(t, photomap.OutcomeFailed, out)
	assert.Equal(t, "Signin: Email already registered; Conflict", other.ErrorState().Message)

	other.Acknowledge()
	out = other.SignIn(ctx, photos.LoginPayload{Type: photos.Signin, Email: "ana@example.com", Password: "pw"})
	assert.Equal(t, photomap.OutcomeRefreshed, out)
}

func TestUsersAreIsolated(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	ana := newPhotomap(t, ts.URL)
	require.Equal(t, photomap.OutcomeRefreshed,
		ana.SignIn(ctx, photos.LoginPayload{Type: photos.Signup, Email: "ana@example.com", Password: "pw"}))
	require.Equal(t, photomap.OutcomeCommitted, ana.Upload(ctx, []updater.File{
		{Name: "a.png", Content: bytes.NewReader(pngImage(t, 8, 8)), Position: &photos.LatLng{Lat: 1, Lng: 1}},
	}))
	anaImage := ana.Snapshot().Markers[0].ID

	bob := newPhotomap(t, ts.URL)
	require.Equal(t, photomap.OutcomeRefreshed,
		bob.SignIn(ctx, photos.LoginPayload{Type: photos.Signup, Email: "bob@example.com", Password: "pw"}))
	assert.Empty(t, bob.Snapshot().Markers)

	// bob cannot edit ana's image even by id
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	hc := &http.Client{Jar: jar}
	signup := `{"type":1,"email":"eve@example.com","password":"pw"}`
	resp, err := hc.Post(ts.URL+"/signin", "application/json", strings.NewReader(signup))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = hc.Post(ts.URL+"/update-meta", "application/json",
		strings.NewReader(`{"id":"`+anaImage+`","title":"mine now"}`))
	require.NoError(t, err)
	msg, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Image not found", string(msg))
}

func TestUpdateMetaValidation(t *testing.T) {
	ts := newTestServer(t)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	hc := &http.Client{Jar: jar}

	resp, err := hc.Post(ts.URL+"/update-meta", "application/json", strings.NewReader(`{"id":"x","title":"t"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = hc.Post(ts.URL+"/signin", "application/json",
		strings.NewReader(`{"type":1,"email":"ana@example.com","password":"pw"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", `{`, http.StatusBadRequest},
		{"no id", `{"title":"t"}`, http.StatusBadRequest},
		{"no field", `{"id":"x"}`, http.StatusBadRequest},
		{"two fields", `{"id":"x","title":"t","description":"d"}`, http.StatusBadRequest},
		{"unknown image", `{"id":"x","hashtags":["a"]}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := hc.Post(ts.URL+"/update-meta", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestListenPicksUpOtherClientsChanges(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	creds := photos.LoginPayload{Type: photos.Signup, Email: "ana@example.com", Password: "pw"}

	viewer := newPhotomap(t, ts.URL)
	require.Equal(t, photomap.OutcomeRefreshed, viewer.SignIn(ctx, creds))

	listenCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- viewer.Listen(listenCtx) }()

	// same user on a second device
	creds.Type = photos.Signin
	uploader := newPhotomap(t, ts.URL)
	require.Equal(t, photomap.OutcomeRefreshed, uploader.SignIn(ctx, creds))

	// the subscription may race the first upload, so keep uploading until seen
	require.Eventually(t, func() bool {
		uploader.Upload(ctx, []updater.File{
			{Name: "p.png", Content: bytes.NewReader(pngImage(t, 8, 8)), Position: &photos.LatLng{Lat: 2, Lng: 2}},
		})
		return len(viewer.Snapshot().Markers) > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
