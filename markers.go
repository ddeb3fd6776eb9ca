package photomap

import (
	"context"
	"time"

	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/store"
)

// Compile-time interface check to ensure proper implementation.
var _ Markers = (*client)(nil)

// Markers refreshes and reads the marker set.
type Markers interface {
	// RefreshMarkers replaces the marker set with the service's current one
	RefreshMarkers(ctx context.Context) Outcome

	// Snapshot returns an independent copy of all client state
	Snapshot() store.Snapshot

	// Marker returns one marker by ID
	Marker(id string) (photos.Marker, bool)

	// Selected returns the selected marker, if any
	Selected() (photos.Marker, bool)
}

const resourceMarkers = "markers"

// RefreshMarkers pulls the marker set for the active filter and replaces the
// store's set wholesale. Signed-out clients clear the set without a request,
// and a refresh while another is in flight is dropped.
func (c *client) RefreshMarkers(ctx context.Context) Outcome {
	if !c.state.Authenticated() {
		c.replaceMarkers(photos.EmptySet())
		c.logger.Debug().Msg("Not signed in, cleared markers")
		return OutcomeCleared
	}

	outcome, ok := c.fetchMarkers(ctx)
	if !ok {
		c.metrics.RecordFetchSuppressed(resourceMarkers)
		c.logger.Debug().Msg("Markers fetch already in flight")
		return OutcomeSuppressed
	}
	return outcome
}

// fetchMarkers owns the markers guard for the whole fetch-and-apply so that
// the next fetch can only start once this one has landed.
func (c *client) fetchMarkers(ctx context.Context) (Outcome, bool) {
	if !c.markersFlight.tryAcquire() {
		return OutcomeSuppressed, false
	}
	defer c.markersFlight.release()

	filter := c.state.Filter()
	c.metrics.RecordFetchStart(resourceMarkers)
	start := time.Now()
	res := c.markerUpdater.FetchMarkers(ctx, filter)
	c.metrics.RecordFetchEnd(resourceMarkers, time.Since(start), res.Success)

	if !res.Success {
		c.replaceMarkers(photos.EmptySet())
		c.report(res.ErrorMessage)
		return OutcomeFailed, true
	}

	if res.Markers.Len() == 0 {
		c.replaceMarkers(photos.EmptySet())
		c.logger.Debug().Str("filter", filter).Msg("No markers returned")
		return OutcomeCleared, true
	}

	c.replaceMarkers(res.Markers)
	c.logger.Debug().
		Str("filter", filter).
		Int("markers", res.Markers.Len()).
		Msg("Markers refreshed")
	return OutcomeRefreshed, true
}

// replaceMarkers swaps the set and fires the change hooks.
func (c *client) replaceMarkers(set *photos.MarkerSet) {
	prev := c.state.ReplaceAll(set)
	c.hooks.triggerMarkersReplaced(prev, set)
}

// Snapshot returns an independent copy of all client state.
func (c *client) Snapshot() store.Snapshot {
	return c.state.Snapshot()
}

// Marker returns one marker by ID.
func (c *client) Marker(id string) (photos.Marker, bool) {
	return c.state.Marker(id)
}

// Selected returns the selected marker, if any.
func (c *client) Selected() (photos.Marker, bool) {
	return c.state.Selected()
}
