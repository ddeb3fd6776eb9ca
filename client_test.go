package photomap

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/photomap/internal/metrics"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/photos"
)

func TestNewRequiresServerOrUpdaters(t *testing.T) {
	_, err := New(WithLogger(logging.NewNopLogger()))
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = New(WithServer("not a url"), WithLogger(logging.NewNopLogger()))
	assert.Error(t, err)

	c, err := New(WithServer("http://localhost:1"), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.False(t, c.CurrentSession().Authenticated)
}

func TestRefreshMarkersSelectsFirst(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1), mk("m2", 2)}
	c := newTestClient(t, svc)

	assert.Equal(t, OutcomeRefreshed, c.RefreshMarkers(context.Background()))

	snap := c.Snapshot()
	require.Len(t, snap.Markers, 2)
	assert.Equal(t, "m1", snap.Markers[0].ID)
	assert.Equal(t, "m2", snap.Markers[1].ID)
	assert.Equal(t, "m1", snap.SelectedID)
	assert.Equal(t, 1.0, snap.View.Center.Lat)
}

func TestRefreshMarkersDedup(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	svc.markerGate = make(chan struct{})
	c := newTestClient(t, svc)

	var wg sync.WaitGroup
	var first Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = c.RefreshMarkers(context.Background())
	}()
	<-svc.started

	assert.Equal(t, OutcomeSuppressed, c.RefreshMarkers(context.Background()))
	assert.True(t, c.markersFlight.busy())

	close(svc.markerGate)
	wg.Wait()

	assert.Equal(t, OutcomeRefreshed, first)
	assert.Equal(t, int32(1), svc.markerCalls.Load())
	assert.False(t, c.markersFlight.busy())

	// the guard is free again once the first fetch has landed
	assert.Equal(t, OutcomeRefreshed, c.RefreshMarkers(context.Background()))
	assert.Equal(t, int32(2), svc.markerCalls.Load())
}

func TestRefreshMarkersUnauthenticated(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	c := newTestClient(t, svc)
	require.Equal(t, OutcomeRefreshed, c.RefreshMarkers(context.Background()))
	calls := svc.markerCalls.Load()

	c.state.ClearSession()
	for range 3 {
		assert.Equal(t, OutcomeCleared, c.RefreshMarkers(context.Background()))
	}

	assert.Equal(t, calls, svc.markerCalls.Load(), "no request while signed out")
	assert.Empty(t, c.Snapshot().Markers)
	assert.Empty(t, c.Snapshot().SelectedID)
}

func TestRefreshMarkersFailure(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	c := newTestClient(t, svc)
	require.Equal(t, OutcomeRefreshed, c.RefreshMarkers(context.Background()))

	svc.set(func(f *fakeService) { f.markersErr = "Markers: boom; Internal Server Error" })
	assert.Equal(t, OutcomeFailed, c.RefreshMarkers(context.Background()))

	snap := c.Snapshot()
	assert.Empty(t, snap.Markers)
	assert.Empty(t, snap.SelectedID)
	assert.Equal(t, "Markers: boom; Internal Server Error", snap.Error.Message)
	assert.True(t, snap.Error.Active)
	assert.False(t, c.markersFlight.busy())
}

func TestRefreshMarkersEmptyClearsSelection(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	c := newTestClient(t, svc)
	require.Equal(t, OutcomeRefreshed, c.RefreshMarkers(context.Background()))
	require.Equal(t, "m1", c.Snapshot().SelectedID)

	svc.set(func(f *fakeService) { f.markers = nil })
	assert.Equal(t, OutcomeCleared, c.RefreshMarkers(context.Background()))
	assert.Empty(t, c.Snapshot().SelectedID)
	assert.False(t, c.ErrorState().Active)
}

func TestRefreshMarkersUsesFilter(t *testing.T) {
	svc := newFakeService()
	svc.hashtags = []string{"cats"}
	c := newTestClient(t, svc)
	c.RefreshHashtags(context.Background())

	_, err := c.ChangeFilter(context.Background(), "cats")
	require.NoError(t, err)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, "cats", svc.filters[len(svc.filters)-1])
}

func TestStaleRefreshOverwritesPatch(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	c := newTestClient(t, svc)
	require.Equal(t, OutcomeRefreshed, c.RefreshMarkers(context.Background()))

	svc.set(func(f *fakeService) { f.markerGate = make(chan struct{}) })
	svc.drain()

	done := make(chan Outcome)
	go func() { done <- c.RefreshMarkers(context.Background()) }()
	<-svc.started

	c.ApplyTitle("m1", "edited while fetching")
	m, _ := c.Marker("m1")
	require.Equal(t, "edited while fetching", m.Title)

	svc.mu.Lock()
	close(svc.markerGate)
	svc.mu.Unlock()
	require.Equal(t, OutcomeRefreshed, <-done)

	m, _ = c.Marker("m1")
	assert.Equal(t, "title m1", m.Title, "last full refresh wins")
}

func TestRefreshHashtagsDedup(t *testing.T) {
	svc := newFakeService()
	svc.hashtags = []string{"a"}
	svc.tagGate = make(chan struct{})
	c := newTestClient(t, svc)

	done := make(chan Outcome)
	go func() { done <- c.RefreshHashtags(context.Background()) }()
	<-svc.started

	before := c.Snapshot()
	assert.Equal(t, OutcomeSuppressed, c.RefreshHashtags(context.Background()))
	assert.Equal(t, before, c.Snapshot(), "suppressed call has no side effects")

	close(svc.tagGate)
	assert.Equal(t, OutcomeRefreshed, <-done)
	assert.Equal(t, int32(1), svc.tagCalls.Load())
	assert.Equal(t, []string{"a"}, c.HashtagVocabulary())
}

func TestRefreshHashtagsRevalidatesFilter(t *testing.T) {
	svc := newFakeService()
	svc.hashtags = []string{"x", "y"}
	c := newTestClient(t, svc)
	require.Equal(t, OutcomeRefreshed, c.RefreshHashtags(context.Background()))
	c.state.SetFilter("x")

	svc.set(func(f *fakeService) { f.hashtags = []string{"y"} })
	calls := svc.markerCalls.Load()
	require.Equal(t, OutcomeRefreshed, c.RefreshHashtags(context.Background()))

	assert.Empty(t, c.Snapshot().HashtagFilter)
	assert.Equal(t, calls, svc.markerCalls.Load(), "no marker refresh is triggered")

	c.state.SetFilter("y")
	require.Equal(t, OutcomeRefreshed, c.RefreshHashtags(context.Background()))
	assert.Equal(t, "y", c.Snapshot().HashtagFilter)
}

func TestRefreshHashtagsClearsAndFails(t *testing.T) {
	svc := newFakeService()
	svc.hashtags = []string{"x"}
	c := newTestClient(t, svc)
	require.Equal(t, OutcomeRefreshed, c.RefreshHashtags(context.Background()))
	c.state.SetFilter("x")

	svc.set(func(f *fakeService) { f.tagsErr = "Hashtags: nope" })
	assert.Equal(t, OutcomeFailed, c.RefreshHashtags(context.Background()))
	assert.Empty(t, c.HashtagVocabulary())
	assert.Empty(t, c.Snapshot().HashtagFilter)
	assert.Equal(t, "Hashtags: nope", c.ErrorState().Message)

	svc.set(func(f *fakeService) { f.tagsErr = ""; f.hashtags = nil })
	assert.Equal(t, OutcomeCleared, c.RefreshHashtags(context.Background()))

	c.state.ClearSession()
	calls := svc.tagCalls.Load()
	assert.Equal(t, OutcomeCleared, c.RefreshHashtags(context.Background()))
	assert.Equal(t, calls, svc.tagCalls.Load())
}

func TestRefreshHashtagsDisabled(t *testing.T) {
	svc := newFakeService()
	svc.hashtags = []string{"x"}
	c := newTestClient(t, svc, WithHashtags(false))

	assert.Equal(t, OutcomeDisabled, c.RefreshHashtags(context.Background()))
	assert.Equal(t, int32(0), svc.tagCalls.Load())
}

func TestMetricsWired(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	svc.updateErr = "Update Metadata: nope"
	collector := metrics.NewCollector("photomap")
	c := newTestClient(t, svc, WithMetrics(collector))

	c.RefreshMarkers(context.Background())
	c.CommitTitle(context.Background(), "m1")

	n, err := testutil.GatherAndCount(collector.Registry(), "photomap_fetch_total", "photomap_commit_total", "photomap_errors_reported_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAutoUpdates(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	c := newTestClient(t, svc, WithAutoUpdateInterval(10*time.Millisecond))

	require.NoError(t, c.AutoUpdatesOn())
	assert.Eventually(t, func() bool {
		return svc.markerCalls.Load() >= 2 && svc.tagCalls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, c.AutoUpdatesOff())
	require.NoError(t, c.AutoUpdatesOff())
}

func TestAutoUpdatesRejectsZeroInterval(t *testing.T) {
	c := newTestClient(t, newFakeService(), WithAutoUpdateInterval(0))
	assert.True(t, errors.IsValidationError(c.AutoUpdatesOn()))

	_, err := New(WithUpdaters(newFakeService()), WithAutoUpdates(true), WithAutoUpdateInterval(-time.Second))
	assert.Error(t, err)
}

func TestAutoUpdatesSurviveTickTimeout(t *testing.T) {
	tl := logging.NewTestLogger(t)
	var calls atomic.Int32
	fn := func(ctx context.Context, _ Client) error {
		if calls.Add(1) == 1 {
			return context.DeadlineExceeded
		}
		return nil
	}
	c, err := New(
		WithUpdaters(newFakeService()),
		WithLogger(tl.Logger),
		WithAutoUpdateInterval(5*time.Millisecond),
		WithAutoUpdateFunc(fn),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.AutoUpdatesOff() })

	require.NoError(t, c.AutoUpdatesOn())
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	tl.AssertContains(t, "Auto-update tick timed out")
}

func TestAutoUpdateFunc(t *testing.T) {
	svc := newFakeService()
	ticks := make(chan struct{}, 8)
	fn := func(ctx context.Context, _ Client) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}
	c, err := New(
		WithUpdaters(svc),
		WithLogger(logging.NewNopLogger()),
		WithAutoUpdates(true),
		WithAutoUpdateInterval(5*time.Millisecond),
		WithAutoUpdateFunc(fn),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.AutoUpdatesOff() })

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("auto update func never ran")
	}
	assert.Equal(t, int32(0), svc.markerCalls.Load())
}
