package photomap

import (
	"context"
	"time"
)

// Compile-time interface check to ensure proper implementation.
var _ Hashtags = (*client)(nil)

// Hashtags refreshes the hashtag vocabulary.
type Hashtags interface {
	// RefreshHashtags replaces the vocabulary with the service's current one
	RefreshHashtags(ctx context.Context) Outcome

	// HashtagVocabulary returns the current vocabulary
	HashtagVocabulary() []string
}

const resourceHashtags = "hashtags"

// RefreshHashtags pulls the hashtag vocabulary. An active filter that is no
// longer part of the new vocabulary is reset; markers are not refetched.
func (c *client) RefreshHashtags(ctx context.Context) Outcome {
	if !c.options.hashtagsEnabled {
		return OutcomeDisabled
	}
	if !c.state.Authenticated() {
		c.state.ClearHashtags()
		return OutcomeCleared
	}

	outcome, ok := c.fetchHashtags(ctx)
	if !ok {
		c.metrics.RecordFetchSuppressed(resourceHashtags)
		c.logger.Debug().Msg("Hashtags fetch already in flight")
		return OutcomeSuppressed
	}
	return outcome
}

func (c *client) fetchHashtags(ctx context.Context) (Outcome, bool) {
	if !c.hashtagsFlight.tryAcquire() {
		return OutcomeSuppressed, false
	}
	defer c.hashtagsFlight.release()

	c.metrics.RecordFetchStart(resourceHashtags)
	start := time.Now()
	res := c.hashtagUpdater.FetchHashtags(ctx)
	c.metrics.RecordFetchEnd(resourceHashtags, time.Since(start), res.Success)

	if !res.Success {
		c.state.ClearHashtags()
		c.report(res.ErrorMessage)
		return OutcomeFailed, true
	}

	if len(res.Hashtags) == 0 {
		c.state.ClearHashtags()
		return OutcomeCleared, true
	}

	if c.state.SetHashtags(res.Hashtags) {
		c.logger.Debug().Msg("Hashtag filter no longer in vocabulary, reset")
	}
	c.logger.Debug().Int("hashtags", len(res.Hashtags)).Msg("Hashtags refreshed")
	return OutcomeRefreshed, true
}

// HashtagVocabulary returns the current vocabulary.
func (c *client) HashtagVocabulary() []string {
	return c.state.Hashtags()
}
