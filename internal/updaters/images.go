package updaters

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/internal/transport"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/updater"
)

// Images updates image metadata and uploads new images.
type Images struct {
	client *transport.Client
	logger *zerolog.Logger
}

var _ updater.ImageUpdater = (*Images)(nil)

// NewImages creates an image updater.
func NewImages(client *transport.Client, logger *zerolog.Logger) *Images {
	return &Images{client: client, logger: logger}
}

// UpdateMetadata implements updater.ImageUpdater.
func (u *Images) UpdateMetadata(ctx context.Context, update updater.MetadataUpdate) updater.Result {
	if err := update.Validate(); err != nil {
		return failure(u.logger, "update_metadata", err)
	}

	resp, err := u.client.PostJSON(ctx, constants.PathUpdateMeta, update)
	if err != nil {
		return failure(u.logger, "update_metadata", err)
	}
	if err := transport.CheckStatus(resp, "Update Metadata"); err != nil {
		return failure(u.logger, "update_metadata", err)
	}
	return updater.Ok()
}

// UploadFiles implements updater.ImageUpdater.
func (u *Images) UploadFiles(ctx context.Context, files []updater.File) updater.Result {
	parts := make([]transport.Part, 0, len(files))
	for _, f := range files {
		parts = append(parts, transport.Part{Name: f.Name, Content: f.Content})
	}

	resp, err := u.client.PostMultipartValues(ctx, constants.PathImageUpload, constants.UploadFieldName, parts, positionValues(files))
	if err != nil {
		return failure(u.logger, "upload_files", err)
	}
	if err := transport.CheckStatus(resp, "Image Upload"); err != nil {
		return failure(u.logger, "upload_files", err)
	}
	return updater.Ok()
}

// positionValues encodes per-file positions as parallel lat/lng lists, one
// entry per file and empty for files without one. It returns nil when no
// file has a position.
func positionValues(files []updater.File) url.Values {
	hasPosition := false
	for _, f := range files {
		if f.Position != nil {
			hasPosition = true
			break
		}
	}
	if !hasPosition {
		return nil
	}

	values := url.Values{}
	for _, f := range files {
		lat, lng := "", ""
		if f.Position != nil {
			lat = strconv.FormatFloat(f.Position.Lat, 'f', -1, 64)
			lng = strconv.FormatFloat(f.Position.Lng, 'f', -1, 64)
		}
		values.Add("lat", lat)
		values.Add("lng", lng)
	}
	return values
}
