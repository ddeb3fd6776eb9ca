package photomap

import (
	"context"

	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

// Compile-time interface check to ensure proper implementation.
var _ Editor = (*client)(nil)

// Editor applies local edits and commits them to the service. Apply and
// Commit are separate so callers can apply on every keystroke and commit once.
type Editor interface {
	// ApplyTitle sets a marker's title locally
	ApplyTitle(id, title string)

	// ApplyDescription sets a marker's description locally
	ApplyDescription(id, description string)

	// CommitTitle sends the marker's current title
	CommitTitle(ctx context.Context, id string) Outcome

	// CommitDescription sends the marker's current description
	CommitDescription(ctx context.Context, id string) Outcome

	// AddHashtags merges tags into a marker's hashtags and commits them
	AddHashtags(ctx context.Context, id string, tags []string) Outcome

	// RemoveHashtag removes the first occurrence of tag and commits
	RemoveHashtag(ctx context.Context, id, tag string) Outcome
}

// ApplyTitle sets a marker's title locally. Unknown IDs are ignored.
func (c *client) ApplyTitle(id, title string) {
	c.state.Patch(id, photos.TitlePatch(title))
}

// ApplyDescription sets a marker's description locally. Unknown IDs are ignored.
func (c *client) ApplyDescription(id, description string) {
	c.state.Patch(id, photos.DescriptionPatch(description))
}

// CommitTitle sends the title the store holds right now. A failure is
// reported; the local value stays as it is.
func (c *client) CommitTitle(ctx context.Context, id string) Outcome {
	m, ok := c.state.Marker(id)
	if !ok {
		return OutcomeSkipped
	}
	return c.commit(ctx, updater.TitleUpdate(id, m.Title))
}

// CommitDescription sends the description the store holds right now.
func (c *client) CommitDescription(ctx context.Context, id string) Outcome {
	m, ok := c.state.Marker(id)
	if !ok {
		return OutcomeSkipped
	}
	return c.commit(ctx, updater.DescriptionUpdate(id, m.Description))
}

// AddHashtags appends the new tags after the existing ones, skipping
// duplicates, commits the result and refreshes the vocabulary whatever the
// commit outcome.
func (c *client) AddHashtags(ctx context.Context, id string, tags []string) Outcome {
	_, ok := c.state.UpdateHashtags(id, func(cur []string) []string {
		return photos.MergeUnique(cur, tags)
	})
	if !ok {
		return OutcomeSkipped
	}
	return c.commitHashtags(ctx, id)
}

// RemoveHashtag removes the first occurrence of tag, commits the result and
// refreshes the vocabulary.
func (c *client) RemoveHashtag(ctx context.Context, id, tag string) Outcome {
	_, ok := c.state.UpdateHashtags(id, func(cur []string) []string {
		return photos.RemoveFirst(cur, tag)
	})
	if !ok {
		return OutcomeSkipped
	}
	return c.commitHashtags(ctx, id)
}

func (c *client) commitHashtags(ctx context.Context, id string) Outcome {
	outcome := OutcomeSkipped
	if m, ok := c.state.Marker(id); ok {
		outcome = c.commit(ctx, updater.HashtagsUpdate(id, m.Hashtags))
	}
	c.RefreshHashtags(ctx)
	return outcome
}

func (c *client) commit(ctx context.Context, update updater.MetadataUpdate) Outcome {
	res := c.imageUpdater.UpdateMetadata(ctx, update)
	c.metrics.RecordCommit(string(update.Field), res.Success)
	if !res.Success {
		c.report(res.ErrorMessage)
		return OutcomeFailed
	}
	c.logger.Debug().
		Str("marker", update.ID).
		Str("field", string(update.Field)).
		Msg("Committed")
	return OutcomeCommitted
}
