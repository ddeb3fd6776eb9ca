package photomap

import (
	"context"

	"github.com/agentstation/photomap/pkg/updater"
)

// Upload sends the files, refreshes markers so the new photos show up, and
// only then reports an upload failure.
func (c *client) Upload(ctx context.Context, files []updater.File) Outcome {
	res := c.imageUpdater.UploadFiles(ctx, files)
	c.RefreshMarkers(ctx)
	if !res.Success {
		c.report(res.ErrorMessage)
		return OutcomeFailed
	}
	c.logger.Debug().Int("files", len(files)).Msg("Uploaded")
	return OutcomeCommitted
}
