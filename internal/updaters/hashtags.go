package updaters

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/transport"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/updater"
)

// Hashtags fetches the hashtag vocabulary.
type Hashtags struct {
	client *transport.Client
	logger *zerolog.Logger
}

var _ updater.HashtagUpdater = (*Hashtags)(nil)

// NewHashtags creates a hashtag updater.
func NewHashtags(client *transport.Client, logger *zerolog.Logger) *Hashtags {
	return &Hashtags{client: client, logger: logger}
}

// FetchHashtags implements updater.HashtagUpdater.
func (u *Hashtags) FetchHashtags(ctx context.Context) updater.HashtagsResult {
	resp, err := u.client.Get(ctx, constants.PathHashtags)
	if err != nil {
		return updater.HashtagsResult{Result: failure(u.logger, "fetch_hashtags", err)}
	}

	var tags []string
	if err := transport.DecodeResponse(resp, "Hashtags", "hashtags", &tags); err != nil {
		return updater.HashtagsResult{Result: failure(u.logger, "fetch_hashtags", err)}
	}
	if tags == nil {
		tags = []string{}
	}
	return updater.HashtagsResult{Result: updater.Ok(), Hashtags: tags}
}
