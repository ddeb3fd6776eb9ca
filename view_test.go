package photomap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

func TestSelectMarker(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1), mk("m2", 2)}
	c := loadedClient(t, svc)

	require.NoError(t, c.SelectMarker("m2"))
	assert.Equal(t, "m2", c.Snapshot().SelectedID)
	assert.Equal(t, 2.0, c.Snapshot().View.Center.Lat)

	err := c.SelectMarker("zzz")
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, c.ErrorState().Active, "caller errors never reach the error slot")
}

func TestChangeFilter(t *testing.T) {
	svc := newFakeService()
	svc.hashtags = []string{"cats", "dogs"}
	c := newTestClient(t, svc)

	// no vocabulary loaded yet: any tag is accepted
	out, err := c.ChangeFilter(context.Background(), "birds")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCleared, out)
	assert.Equal(t, "birds", c.Snapshot().HashtagFilter)

	require.Equal(t, OutcomeRefreshed, c.RefreshHashtags(context.Background()))
	assert.Empty(t, c.Snapshot().HashtagFilter)

	_, err = c.ChangeFilter(context.Background(), "birds")
	assert.True(t, errors.IsValidationError(err))

	svc.set(func(f *fakeService) { f.markers = []photos.Marker{mk("m1", 1, "dogs")} })
	out, err = c.SelectHashtag(context.Background(), "m1", "dogs")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefreshed, out)
	assert.Equal(t, "dogs", c.Snapshot().HashtagFilter)

	out, err = c.ChangeFilter(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefreshed, out)
	assert.Empty(t, c.Snapshot().HashtagFilter)
}

func TestThumbSizeAndViewport(t *testing.T) {
	c := newTestClient(t, newFakeService(), WithThumbSize(photos.ThumbMedium))
	assert.Equal(t, photos.ThumbMedium, c.Snapshot().ThumbSize)

	c.SetThumbSize(photos.ThumbLarge)
	pitch := 30.0
	c.SetViewport(photos.Viewport{Center: photos.LatLng{Lat: 4, Lng: 5}, Zoom: 11, Pitch: &pitch})

	snap := c.Snapshot()
	assert.Equal(t, photos.ThumbLarge, snap.ThumbSize)
	assert.Equal(t, 11.0, snap.View.Zoom)
	assert.Equal(t, 30.0, *snap.View.Pitch)
}

func TestUpload(t *testing.T) {
	svc := newFakeService()
	svc.markers = []photos.Marker{mk("m1", 1)}
	c := newTestClient(t, svc)

	files := []updater.File{{Name: "a.jpg", Content: strings.NewReader("x")}}
	assert.Equal(t, OutcomeCommitted, c.Upload(context.Background(), files))
	assert.Len(t, c.Snapshot().Markers, 1, "markers refreshed after upload")

	svc.set(func(f *fakeService) { f.uploadErr = "Image Upload: too big; Request Entity Too Large" })
	assert.Equal(t, OutcomeFailed, c.Upload(context.Background(), files))
	assert.Equal(t, int32(2), svc.markerCalls.Load())
	assert.Equal(t, "Image Upload: too big; Request Entity Too Large", c.ErrorState().Message)
}

func TestErrorSlot(t *testing.T) {
	c := newTestClient(t, newFakeService())
	var seen []string
	c.OnError(func(msg string) { seen = append(seen, msg) })

	c.Report("one")
	c.Report("two")
	assert.Equal(t, "two", c.ErrorState().Message)
	assert.True(t, c.ErrorState().Active)

	c.Acknowledge()
	assert.False(t, c.ErrorState().Active)
	assert.Equal(t, []string{"one", "two"}, seen)
}
