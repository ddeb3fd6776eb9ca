// Package updaters implements the pkg/updater boundaries over HTTP. Each
// updater turns transport errors into Result messages and logs the failure;
// none of them return Go errors or panic.
package updaters

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/transport"
	"github.com/agentstation/photomap/pkg/logging"
	"github.com/agentstation/photomap/pkg/updater"
)

// HTTP bundles the HTTP updaters sharing one transport client, and with it
// one session.
type HTTP struct {
	*Markers
	*Images
	*Login
	*Hashtags
	*Events
}

var (
	_ updater.Updaters       = (*HTTP)(nil)
	_ updater.ChangeNotifier = (*HTTP)(nil)
)

// New creates the HTTP updaters for client.
func New(client *transport.Client, logger *zerolog.Logger) *HTTP {
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTP{
		Markers:  NewMarkers(client, logger),
		Images:   NewImages(client, logger),
		Login:    NewLogin(client, logger),
		Hashtags: NewHashtags(client, logger),
		Events:   NewEvents(client, logger),
	}
}

// failure logs err and converts it into a failed Result.
func failure(logger *zerolog.Logger, op string, err error) updater.Result {
	msg := transport.ErrorMessage(err)
	logger.Warn().Err(err).Str("operation", op).Msg(msg)
	return updater.Fail(msg)
}
