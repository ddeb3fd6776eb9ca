package photomap

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

// fakeService is an in-memory photo service. Fetches can be held open with
// a gate to observe in-flight behavior.
type fakeService struct {
	mu sync.Mutex

	markers    []photos.Marker
	markersErr string
	hashtags   []string
	tagsErr    string

	authorized bool
	authErr    string
	profile    photos.Profile
	profileErr string
	signinErr  string
	logoutErr  string
	updateErr  string
	uploadErr  string

	markerGate chan struct{}
	tagGate    chan struct{}
	started    chan string

	markerCalls  atomic.Int32
	tagCalls     atomic.Int32
	authCalls    atomic.Int32
	profileCalls atomic.Int32
	logoutCalls  atomic.Int32
	uploadCalls  atomic.Int32
	filters      []string
	updates      []updater.MetadataUpdate
}

var _ updater.Updaters = (*fakeService)(nil)

func newFakeService() *fakeService {
	return &fakeService{
		authorized: true,
		profile:    photos.Profile{Email: "ana@example.com", ID: "u1"},
		started:    make(chan string, 16),
	}
}

func (f *fakeService) FetchMarkers(ctx context.Context, filter string) updater.MarkerResult {
	f.markerCalls.Add(1)
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	gate := f.markerGate
	f.mu.Unlock()

	f.signal("markers")
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markersErr != "" {
		return updater.MarkerResult{Result: updater.Fail(f.markersErr)}
	}
	return updater.MarkerResult{Result: updater.Ok(), Markers: photos.NewMarkerSet(f.markers...)}
}

func (f *fakeService) FetchHashtags(ctx context.Context) updater.HashtagsResult {
	f.tagCalls.Add(1)
	f.mu.Lock()
	gate := f.tagGate
	f.mu.Unlock()

	f.signal("hashtags")
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tagsErr != "" {
		return updater.HashtagsResult{Result: updater.Fail(f.tagsErr)}
	}
	return updater.HashtagsResult{Result: updater.Ok(), Hashtags: append([]string(nil), f.hashtags...)}
}

func (f *fakeService) UpdateMetadata(_ context.Context, u updater.MetadataUpdate) updater.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	if f.updateErr != "" {
		return updater.Fail(f.updateErr)
	}
	return updater.Ok()
}

func (f *fakeService) UploadFiles(context.Context, []updater.File) updater.Result {
	f.uploadCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != "" {
		return updater.Fail(f.uploadErr)
	}
	return updater.Ok()
}

func (f *fakeService) CheckAuth(context.Context) updater.AuthResult {
	f.authCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.authErr != "" {
		return updater.AuthResult{Result: updater.Fail(f.authErr)}
	}
	return updater.AuthResult{Result: updater.Ok(), Authorized: f.authorized}
}

func (f *fakeService) SubmitSignin(_ context.Context, p photos.LoginPayload) updater.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signinErr != "" {
		return updater.Fail(f.signinErr)
	}
	f.authorized = true
	f.profile = photos.Profile{Email: p.Email, ID: "u-" + p.Email}
	return updater.Ok()
}

func (f *fakeService) FetchProfile(context.Context) updater.ProfileResult {
	f.profileCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != "" {
		return updater.ProfileResult{Result: updater.Fail(f.profileErr)}
	}
	return updater.ProfileResult{Result: updater.Ok(), Profile: f.profile}
}

func (f *fakeService) Logout(context.Context) updater.Result {
	f.logoutCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorized = false
	if f.logoutErr != "" {
		return updater.Fail(f.logoutErr)
	}
	return updater.Ok()
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeService) lastUpdate(t *testing.T) updater.MetadataUpdate {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.updates)
	return f.updates[len(f.updates)-1]
}

func mk(id string, lat float64, tags ...string) photos.Marker {
	if tags == nil {
		tags = []string{}
	}
	return photos.Marker{
		ID:       id,
		Title:    "title " + id,
		Position: photos.LatLng{Lat: lat, Lng: lat},
		Hashtags: tags,
		Visible:  true,
	}
}

// newTestClient returns a client over svc, signed in unless svc says otherwise.
func newTestClient(t *testing.T, svc *fakeService, opts ...Option) *client {
	t.Helper()
	opts = append([]Option{WithUpdaters(svc), WithLogger(logging.NewNopLogger())}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.AutoUpdatesOff() })

	impl := c.(*client)
	impl.Authorize(context.Background())
	return impl
}

func (f *fakeService) signal(resource string) {
	select {
	case f.started <- resource:
	default:
	}
}

// drain empties the started channel.
func (f *fakeService) drain() {
	for {
		select {
		case <-f.started:
		default:
			return
		}
	}
}
