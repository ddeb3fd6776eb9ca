package updaters

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/transport"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

// Markers fetches image metadata and projects it into markers.
type Markers struct {
	client *transport.Client
	logger *zerolog.Logger
}

var _ updater.MarkerUpdater = (*Markers)(nil)

// NewMarkers creates a marker updater.
func NewMarkers(client *transport.Client, logger *zerolog.Logger) *Markers {
	return &Markers{client: client, logger: logger}
}

// FetchMarkers implements updater.MarkerUpdater. Records without a usable
// position are skipped.
func (u *Markers) FetchMarkers(ctx context.Context, filter string) updater.MarkerResult {
	var segments []string
	if filter != "" {
		segments = append(segments, filter)
	}

	resp, err := u.client.Get(ctx, constants.PathImagesMeta, segments...)
	if err != nil {
		return updater.MarkerResult{Result: failure(u.logger, "fetch_markers", err)}
	}

	var metas []photos.ImageMetadata
	if err := transport.DecodeResponse(resp, "Markers", "marker data", &metas); err != nil {
		return updater.MarkerResult{Result: failure(u.logger, "fetch_markers", err)}
	}

	root := u.client.BaseURL()
	markers := make([]photos.Marker, 0, len(metas))
	skipped := 0
	for _, meta := range metas {
		m, ok := photos.MarkerFromMetadata(meta, root)
		if !ok {
			skipped++
			continue
		}
		markers = append(markers, m)
	}
	if skipped > 0 {
		u.logger.Debug().Int("skipped", skipped).Msg("ignored images without a valid position")
	}

	return updater.MarkerResult{Result: updater.Ok(), Markers: photos.NewMarkerSet(markers...)}
}
