package updaters

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/transport"
	"github.com/agentstation/photomap/pkg/updater"
)

// Events streams change notifications from the service.
type Events struct {
	client *transport.Client
	logger *zerolog.Logger
}

var _ updater.ChangeNotifier = (*Events)(nil)

// NewEvents creates an event updater.
func NewEvents(client *transport.Client, logger *zerolog.Logger) *Events {
	return &Events{client: client, logger: logger}
}

// WatchChanges implements updater.ChangeNotifier.
func (u *Events) WatchChanges(ctx context.Context, fn func(updater.ChangeEvent)) updater.Result {
	err := u.client.Subscribe(ctx, func(ev transport.Event) {
		fn(updater.ChangeEvent{Type: ev.Type, At: ev.Timestamp})
	})
	if err != nil {
		return failure(u.logger, "watch_changes", err)
	}
	return updater.Ok()
}
