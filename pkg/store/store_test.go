package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marker(id string, lat float64, tags ...string) photos.Marker {
	return photos.Marker{
		ID:       id,
		Title:    "title " + id,
		Position: photos.LatLng{Lat: lat, Lng: lat},
		Hashtags: tags,
		Visible:  true,
	}
}

func TestNewStore(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	assert.Empty(t, snap.Markers)
	assert.Empty(t, snap.SelectedID)
	assert.Empty(t, snap.HashtagFilter)
	assert.False(t, snap.Session.Authenticated)
	assert.False(t, snap.Error.Active)
	assert.Equal(t, constants.DefaultCenterLat, snap.View.Center.Lat)
	assert.Equal(t, constants.DefaultZoom, snap.View.Zoom)
}

func TestReplaceAllSelectsFirstAndCenters(t *testing.T) {
	s := New()
	prev := s.ReplaceAll(photos.NewMarkerSet(marker("b", 5), marker("a", 1)))

	assert.Equal(t, 0, prev.Len())
	assert.Equal(t, "b", s.SelectedID())
	assert.Equal(t, 5.0, s.View().Center.Lat)

	ids := make([]string, 0)
	for _, m := range s.Snapshot().Markers {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestReplaceAllEmptyClearsSelection(t *testing.T) {
	s := New()
	s.ReplaceAll(photos.NewMarkerSet(marker("a", 1)))
	require.Equal(t, "a", s.SelectedID())

	s.ReplaceAll(photos.EmptySet())
	assert.Empty(t, s.SelectedID())
	assert.Equal(t, 0, s.Markers().Len())

	s.ReplaceAll(photos.NewMarkerSet(marker("a", 1)))
	s.ReplaceAll(nil)
	assert.Empty(t, s.SelectedID())
}

func TestReplaceAllIsAtomic(t *testing.T) {
	s := New()
	batchA := make([]photos.Marker, 0, 50)
	batchB := make([]photos.Marker, 0, 50)
	for i := range 50 {
		batchA = append(batchA, marker(fmt.Sprintf("a%d", i), 1))
		batchB = append(batchB, marker(fmt.Sprintf("b%d", i), 2))
	}
	setA := photos.NewMarkerSet(batchA...)
	setB := photos.NewMarkerSet(batchB...)
	s.ReplaceAll(setA)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				s.ReplaceAll(setB)
			} else {
				s.ReplaceAll(setA)
			}
		}
	}()

	for range 500 {
		snap := s.Snapshot()
		require.Len(t, snap.Markers, 50)
		prefix := snap.Markers[0].ID[:1]
		for _, m := range snap.Markers {
			require.Equal(t, prefix, m.ID[:1], "snapshot mixed two batches")
		}
		require.Equal(t, snap.Markers[0].ID, snap.SelectedID)
	}
	close(stop)
	wg.Wait()
}

func TestPatch(t *testing.T) {
	s := New()
	s.ReplaceAll(photos.NewMarkerSet(marker("m1", 1, "x")))
	before := s.Markers()

	updated, ok := s.Patch("m1", photos.TitlePatch("new"))
	require.True(t, ok)
	assert.Equal(t, "new", updated.Title)

	selected, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "new", selected.Title)

	old, _ := before.Get("m1")
	assert.Equal(t, "title m1", old.Title, "earlier set must stay untouched")

	_, ok = s.Patch("missing", photos.TitlePatch("x"))
	assert.False(t, ok)
	assert.Equal(t, 1, s.Markers().Len())
}

func TestUpdateHashtags(t *testing.T) {
	s := New()
	s.ReplaceAll(photos.NewMarkerSet(marker("m1", 1, "x")))

	tags, ok := s.UpdateHashtags("m1", func(cur []string) []string {
		return photos.MergeUnique(cur, []string{"y", "x"})
	})
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, tags)

	m, _ := s.Marker("m1")
	assert.Equal(t, []string{"x", "y"}, m.Hashtags)

	_, ok = s.UpdateHashtags("missing", func(cur []string) []string { return cur })
	assert.False(t, ok)
}

func TestUpdateHashtagsConcurrent(t *testing.T) {
	s := New()
	s.ReplaceAll(photos.NewMarkerSet(marker("m1", 1)))

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.UpdateHashtags("m1", func(cur []string) []string {
				return photos.MergeUnique(cur, []string{fmt.Sprintf("t%d", i)})
			})
		}(i)
	}
	wg.Wait()

	m, _ := s.Marker("m1")
	assert.Len(t, m.Hashtags, n)
}

func TestSelect(t *testing.T) {
	s := New()
	s.ReplaceAll(photos.NewMarkerSet(marker("a", 1), marker("b", 7)))

	require.NoError(t, s.Select("b"))
	assert.Equal(t, "b", s.SelectedID())
	assert.Equal(t, 7.0, s.View().Center.Lat)

	err := s.Select("zzz")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "b", s.SelectedID())

	s.ClearSelection()
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestSetHashtagsRevalidatesFilter(t *testing.T) {
	s := New()
	s.SetFilter("cats")

	reset := s.SetHashtags([]string{"cats", "dogs"})
	assert.False(t, reset)
	assert.Equal(t, "cats", s.Filter())

	reset = s.SetHashtags([]string{"dogs"})
	assert.True(t, reset)
	assert.Empty(t, s.Filter())

	assert.False(t, s.SetHashtags(nil))
	assert.Equal(t, []string{}, s.Hashtags())
}

func TestClearHashtags(t *testing.T) {
	s := New()
	s.SetHashtags([]string{"a"})
	s.SetFilter("a")

	s.ClearHashtags()
	assert.Empty(t, s.Hashtags())
	assert.Empty(t, s.Filter())
}

func TestSession(t *testing.T) {
	s := New()
	s.SetSession(photos.Profile{Email: "a@b.c", ID: "u1"})
	assert.True(t, s.Authenticated())
	assert.Equal(t, "u1", s.Session().Profile.ID)

	s.ClearSession()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Session().Profile.Email)
}

func TestErrorSlot(t *testing.T) {
	s := New()
	s.Report("first")
	s.Report("second")
	assert.Equal(t, ErrorState{Active: true, Message: "second"}, s.Error())

	s.Acknowledge()
	assert.False(t, s.Error().Active)
	assert.Equal(t, "second", s.Error().Message)

	s.Report("third")
	assert.True(t, s.Error().Active)
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New()
	s.ReplaceAll(photos.NewMarkerSet(marker("a", 1, "x")))
	s.SetHashtags([]string{"x"})
	bearing := 10.0
	s.SetView(photos.Viewport{Zoom: 3, Bearing: &bearing})

	snap := s.Snapshot()
	snap.Markers[0].Hashtags[0] = "mutated"
	snap.Hashtags[0] = "mutated"
	*snap.View.Bearing = 99

	m, _ := s.Marker("a")
	assert.Equal(t, []string{"x"}, m.Hashtags)
	assert.Equal(t, []string{"x"}, s.Hashtags())
	assert.Equal(t, 10.0, *s.View().Bearing)

	sel, ok := snap.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", sel.ID)
}

func TestThumbSize(t *testing.T) {
	s := New()
	assert.Equal(t, photos.ThumbSmall, s.ThumbSize())
	s.SetThumbSize(photos.ThumbLarge)
	assert.Equal(t, photos.ThumbLarge, s.ThumbSize())
}
