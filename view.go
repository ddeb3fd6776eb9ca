package photomap

import (
	"context"
	"slices"

	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

// Compile-time interface check to ensure proper implementation.
var _ View = (*client)(nil)

// View handles selection, filtering, thumbnails, the map camera and uploads.
type View interface {
	// SelectMarker selects a marker that is in the store
	SelectMarker(id string) error

	// ChangeFilter sets the hashtag filter and refreshes markers
	ChangeFilter(ctx context.Context, tag string) (Outcome, error)

	// SelectHashtag filters by a tag picked from a marker
	SelectHashtag(ctx context.Context, id, tag string) (Outcome, error)

	// SetThumbSize sets the thumbnail size
	SetThumbSize(size photos.ThumbSize)

	// SetViewport records the map camera
	SetViewport(view photos.Viewport)

	// Upload sends new images and refreshes markers
	Upload(ctx context.Context, files []updater.File) Outcome
}

// SelectMarker selects a marker and centers the map on it. Selecting an ID
// that is not in the store is a caller error and returns *errors.NotFoundError.
func (c *client) SelectMarker(id string) error {
	return c.state.Select(id)
}

// ChangeFilter sets the hashtag filter ("" for none) and refreshes markers.
// While a vocabulary is loaded the tag must be part of it.
func (c *client) ChangeFilter(ctx context.Context, tag string) (Outcome, error) {
	if tag != "" {
		vocab := c.state.Hashtags()
		if len(vocab) > 0 && !slices.Contains(vocab, tag) {
			return OutcomeSkipped, errors.NewValidationError("filter", tag, "not a known hashtag")
		}
	}
	c.state.SetFilter(tag)
	return c.RefreshMarkers(ctx), nil
}

// SelectHashtag filters the map by a tag clicked on a marker.
func (c *client) SelectHashtag(ctx context.Context, _ string, tag string) (Outcome, error) {
	return c.ChangeFilter(ctx, tag)
}

// SetThumbSize sets the thumbnail size.
func (c *client) SetThumbSize(size photos.ThumbSize) {
	c.state.SetThumbSize(size)
}

// SetViewport records the map camera.
func (c *client) SetViewport(view photos.Viewport) {
	c.state.SetView(view)
}
