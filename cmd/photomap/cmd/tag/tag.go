// Package tag provides the commands that add and remove a photo's hashtags.
package tag

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/pkg/errors"
)

// NewCommand creates the tag command with its add and rm subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		GroupID: "core",
		Short:   "Add or remove a photo's hashtags",
		Example: `  photomap tag add m1 peru water
  photomap tag rm m1 water`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <hashtag>...",
		Short: "Add hashtags to a photo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := normalize(args[1:])
			return run(cmd, app, args[0], func(ctx context.Context, pm photomap.Client) photomap.Outcome {
				return pm.AddHashtags(ctx, args[0], tags)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id> <hashtag>",
		Aliases: []string{"remove"},
		Short:   "Remove a hashtag from a photo",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := normalize(args[1:2])[0]
			return run(cmd, app, args[0], func(ctx context.Context, pm photomap.Client) photomap.Outcome {
				return pm.RemoveHashtag(ctx, args[0], tag)
			})
		},
	})

	return cmd
}

func run(cmd *cobra.Command, app application.Application, id string, edit func(context.Context, photomap.Client) photomap.Outcome) error {
	ctx := cmd.Context()
	pm, err := session.Open(ctx, app)
	if err != nil {
		return err
	}

	out := edit(ctx, pm)
	if out == photomap.OutcomeSkipped {
		return errors.NewNotFoundError("marker", id)
	}
	if err := session.Check(pm, out); err != nil {
		return err
	}

	m, _ := pm.Marker(id)
	return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), m.Hashtags,
		output.HashtagsData(m.Hashtags, ""))
}

// normalize strips a leading '#' so "#peru" and "peru" name the same tag.
func normalize(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.TrimPrefix(strings.TrimSpace(t), "#")
	}
	return out
}
