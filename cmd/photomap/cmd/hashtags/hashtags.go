// Package hashtags provides the command that prints the hashtag vocabulary.
package hashtags

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/pkg/errors"
)

// ErrDisabled is returned when the hashtag feature is turned off.
var ErrDisabled = errors.New("hashtags are disabled (PHOTOMAP_HASHTAGS_ENABLED=false)")

// NewCommand creates the hashtags command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "hashtags",
		GroupID: "core",
		Aliases: []string{"tags"},
		Short:   "List every hashtag used on your photos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pm, err := session.Open(ctx, app)
			if err != nil {
				return err
			}

			out := pm.RefreshHashtags(ctx)
			if out == photomap.OutcomeDisabled {
				return ErrDisabled
			}
			if err := session.Check(pm, out); err != nil {
				return err
			}

			snap := pm.Snapshot()
			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()),
				snap.Hashtags, output.HashtagsData(snap.Hashtags, snap.HashtagFilter))
		},
	}
}
