package photomap

import (
	"context"

	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/updater"
)

// Listen subscribes to the service's change events and re-runs both
// refreshes on every images change. Refreshes go through the usual guards,
// so an event that lands during a fetch is absorbed by it. Listen returns nil
// once ctx is done; a broken stream is reported to the error slot and
// returned.
func (c *client) Listen(ctx context.Context) error {
	if c.notifier == nil {
		return errors.NewConfigError("photomap", "the configured service does not push change events", nil)
	}

	c.logger.Debug().Msg("Listening for change events")
	res := c.notifier.WatchChanges(ctx, func(ev updater.ChangeEvent) {
		if ev.Type != updater.ImagesChanged {
			return
		}
		c.logger.Debug().Time("at", ev.At).Msg("Change event received")
		c.RefreshMarkers(ctx)
		c.RefreshHashtags(ctx)
	})
	if ctx.Err() != nil {
		return nil
	}
	if !res.Success {
		c.report(res.ErrorMessage)
		return errors.WrapResource("watch", "changes", "", errors.New(res.ErrorMessage))
	}
	return nil
}
