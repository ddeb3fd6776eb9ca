package photomap

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoUpdater = (*client)(nil)

// AutoUpdater provides controls for automatic refreshes.
type AutoUpdater interface {
	// AutoUpdatesOn begins refreshing on a ticker
	AutoUpdatesOn() error

	// AutoUpdatesOff stops automatic refreshes
	AutoUpdatesOff() error

	// Listen refreshes whenever the service pushes a change, until ctx is done
	Listen(ctx context.Context) error
}

// AutoUpdatesOn refreshes markers and hashtags on every tick. Ticks that land
// while a fetch is in flight are dropped by the same guards manual calls use.
func (c *client) AutoUpdatesOn() error {
	if c.options.autoUpdateInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoUpdateInterval",
			Value:   c.options.autoUpdateInterval,
			Message: "update interval must be positive",
		}
	}

	// Stop any existing auto-updates to prevent resource leaks
	if err := c.AutoUpdatesOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	stopCh := make(chan struct{})
	ticker := time.NewTicker(c.options.autoUpdateInterval)
	ctx, cancel := context.WithCancel(context.Background())
	c.stopCh = stopCh
	c.updateTicker = ticker
	c.updateCancel = cancel

	go func(parentCtx context.Context) {
		for {
			select {
			case <-ticker.C:
				updateCtx, updateCancel := context.WithTimeout(parentCtx, constants.RefreshContextTimeout)
				err := c.autoUpdate(updateCtx)
				updateCancel()

				switch {
				case err == nil:
				case parentCtx.Err() != nil:
					return
				case stderrors.Is(err, context.DeadlineExceeded):
					// a slow tick only costs that tick
					c.logger.Warn().Dur("timeout", constants.RefreshContextTimeout).Msg("Auto-update tick timed out")
				default:
					c.logger.Error().Err(err).Msg("Auto-update failed")
				}
			case <-parentCtx.Done():
				return
			case <-stopCh:
				return
			}
		}
	}(ctx)

	c.logger.Debug().Dur("interval", c.options.autoUpdateInterval).Msg("Auto-updates on")
	return nil
}

// AutoUpdatesOff stops automatic refreshes. It is safe to call repeatedly.
func (c *client) AutoUpdatesOff() error {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	if c.updateTicker != nil {
		c.updateTicker.Stop()
		c.updateTicker = nil
	}
	if c.updateCancel != nil {
		c.updateCancel()
		c.updateCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}

func (c *client) autoUpdate(ctx context.Context) error {
	if c.options.autoUpdateFunc != nil {
		return c.options.autoUpdateFunc(ctx, c)
	}
	c.RefreshMarkers(ctx)
	c.RefreshHashtags(ctx)
	return ctx.Err()
}
