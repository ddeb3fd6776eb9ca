// Package export provides the command that writes the markers as a
// markdown photo album.
package export

import (
	"io"
	"os"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
	"github.com/agentstation/photomap/pkg/store"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		file   string
		filter string
		thumb  string
	)

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Write the photos as a markdown album",
		Long: `Export writes one markdown section per marker with its thumbnail,
date, position, hashtags and description, followed by a hashtag index.`,
		Example: `  photomap export > album.md
  photomap export --filter peru --thumb large --file peru.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			size, err := photos.ParseThumbSize(thumb)
			if err != nil {
				return err
			}

			pm, err := session.Open(ctx, app)
			if err != nil {
				return err
			}
			pm.RefreshHashtags(ctx)
			if filter != "" {
				out, err := pm.ChangeFilter(ctx, filter)
				if err != nil {
					return err
				}
				if err := session.Check(pm, out); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if file != "" {
				f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
				if err != nil {
					return errors.WrapIO("create", file, err)
				}
				defer f.Close()
				w = f
			}

			snap := pm.Snapshot()
			if err := Album(w, snap, size); err != nil {
				return errors.WrapIO("write", file, err)
			}
			app.Logger().Debug().Int("markers", len(snap.Markers)).Str("file", file).Msg("Exported album")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "write to this file instead of stdout")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only export photos with this hashtag")
	cmd.Flags().StringVar(&thumb, "thumb", "medium", "thumbnail size: small, medium, large")

	return cmd
}

// Album renders the snapshot's markers as a markdown document.
func Album(w io.Writer, snap store.Snapshot, size photos.ThumbSize) error {
	doc := md.NewMarkdown(w)

	title := "Photo map"
	if snap.Session.Profile.Email != "" {
		title += " of " + snap.Session.Profile.Email
	}
	doc.H1(title)
	if snap.HashtagFilter != "" {
		doc.PlainTextf("Showing photos tagged %s.", md.Bold("#"+snap.HashtagFilter))
	}

	if len(snap.Markers) == 0 {
		doc.PlainText(md.Italic("No photos with a position yet."))
		return doc.Build()
	}

	for _, m := range snap.Markers {
		doc.H2(heading(m))
		if url := m.ThumbURL(size); url != "" {
			doc.PlainText(md.Link(md.Image(m.Title, url), m.ImageURL))
		}
		details := []string{"Position: " + output.FormatLatLng(m.Position)}
		if when := strings.TrimSpace(m.Date + " " + m.Time); when != "" {
			details = append(details, "Taken: "+when)
		}
		if m.Camera != "" {
			details = append(details, "Camera: "+m.Camera)
		}
		if len(m.Hashtags) > 0 {
			details = append(details, "Hashtags: "+output.FormatHashtags(m.Hashtags))
		}
		doc.BulletList(details...)
		if m.Description != "" {
			doc.Blockquote(m.Description)
		}
	}

	if len(snap.Hashtags) > 0 {
		doc.H2("Hashtags")
		doc.Table(md.TableSet{
			Header: []string{"Hashtag", "Photos"},
			Rows:   tagIndex(snap.Markers, snap.Hashtags),
		})
	}

	return doc.Build()
}

func heading(m photos.Marker) string {
	if m.Title != "" {
		return m.Title
	}
	return m.ID
}

// tagIndex counts the listed markers per vocabulary tag.
func tagIndex(markers []photos.Marker, vocabulary []string) [][]string {
	counts := make(map[string]int, len(vocabulary))
	for _, m := range markers {
		for _, t := range m.Hashtags {
			counts[t]++
		}
	}
	rows := make([][]string, 0, len(vocabulary))
	for _, t := range vocabulary {
		rows = append(rows, []string{"#" + t, strconv.Itoa(counts[t])})
	}
	return rows
}
