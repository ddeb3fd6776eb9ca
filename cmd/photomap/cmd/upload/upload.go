// Package upload provides the command that sends new photos to the service.
package upload

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/updater"
)

// NewCommand creates the upload command.
func NewCommand(app application.Application) *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:     "upload <file>...",
		GroupID: "core",
		Short:   "Upload photos",
		Long: `Upload sends one or more image files to the photo service and prints
the refreshed markers. A photo only appears on the map when it has a
position: pass --lat and --lng to place every uploaded file there.`,
		Example: `  photomap upload lake.jpg --lat -15.84 --lng -69.33
  photomap upload *.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var pos *photos.LatLng
			if flags.Changed("lat") || flags.Changed("lng") {
				if !flags.Changed("lat") || !flags.Changed("lng") {
					return errors.NewValidationError("position", nil, "set both --lat and --lng")
				}
				p := photos.LatLng{Lat: lat, Lng: lng}
				if !p.Valid() {
					return errors.NewValidationError("position", p, "latitude must be within ±90 and longitude within ±180")
				}
				pos = &p
			}

			files := make([]updater.File, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return errors.WrapIO("open", path, err)
				}
				defer f.Close()
				files = append(files, updater.File{Name: filepath.Base(path), Content: f, Position: pos})
			}

			ctx := cmd.Context()
			pm, err := session.Open(ctx, app)
			if err != nil {
				return err
			}
			if err := session.Check(pm, pm.Upload(ctx, files)); err != nil {
				return err
			}
			app.Logger().Info().Int("files", len(files)).Msg("Uploaded")

			snap := pm.Snapshot()
			format := output.Format(app.OutputFormat())
			return output.Write(cmd.OutOrStdout(), format, snap.Markers,
				output.MarkersData(snap.Markers, snap.ThumbSize, format == output.FormatWide))
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude for the uploaded photos")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude for the uploaded photos")

	return cmd
}
