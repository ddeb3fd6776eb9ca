// Package markers provides the command that lists photo markers.
package markers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/pkg/photos"
)

// NewCommand creates the markers command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		filter string
		thumb  string
	)

	cmd := &cobra.Command{
		Use:     "markers [id]",
		GroupID: "core",
		Aliases: []string{"ls", "list"},
		Short:   "List the photos that have a position",
		Long: `Markers signs in, loads the photos from the photo service and prints
every photo that carries a position. Photos without one are never shown.

With an id, only that marker is printed.`,
		Example: `  photomap markers                  # all markers
  photomap markers --filter peru    # only photos tagged #peru
  photomap markers m1 -o yaml       # one marker as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			size, err := photos.ParseThumbSize(thumb)
			if err != nil {
				return err
			}

			pm, err := session.Open(ctx, app)
			if err != nil {
				return err
			}
			pm.SetThumbSize(size)

			if filter != "" {
				if err := session.Check(pm, pm.RefreshHashtags(ctx)); err != nil {
					return err
				}
				out, err := pm.ChangeFilter(ctx, filter)
				if err != nil {
					return err
				}
				if err := session.Check(pm, out); err != nil {
					return err
				}
			}

			format := output.Format(app.OutputFormat())
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				if err := pm.SelectMarker(args[0]); err != nil {
					return fmt.Errorf("marker %s: %w", args[0], err)
				}
				m, _ := pm.Selected()
				return output.Write(w, format, m, output.MarkerData(m, size))
			}

			markers := pm.Snapshot().Markers
			app.Logger().Debug().Int("count", len(markers)).Str("filter", filter).Msg("Listing markers")
			return output.Write(w, format, markers, output.MarkersData(markers, size, format == output.FormatWide))
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show photos with this hashtag")
	cmd.Flags().StringVar(&thumb, "thumb", "small", "thumbnail size for URLs: small, medium, large")

	return cmd
}
