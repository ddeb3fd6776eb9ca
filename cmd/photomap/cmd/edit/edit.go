// Package edit provides the command that changes a photo's title or
// description.
package edit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/photomap"
	"github.com/agentstation/photomap/cmd/application"
	"github.com/agentstation/photomap/internal/cmd/output"
	"github.com/agentstation/photomap/internal/cmd/session"
	"github.com/agentstation/photomap/pkg/errors"
)

// NewCommand creates the edit command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		GroupID: "core",
		Short:   "Change a photo's title or description",
		Long: `Edit applies the new values locally and then commits each changed field
to the photo service. A field that fails to commit keeps its local value
and the command reports the service's message.`,
		Example: `  photomap edit m1 --title "Lake Titicaca"
  photomap edit m1 --description "From the boat"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("description") {
				return errors.NewValidationError("flags", nil, "set --title, --description or both")
			}
			title, _ := flags.GetString("title")
			description, _ := flags.GetString("description")

			ctx := cmd.Context()
			pm, err := session.Open(ctx, app)
			if err != nil {
				return err
			}

			id := args[0]
			if _, ok := pm.Marker(id); !ok {
				return errors.NewNotFoundError("marker", id)
			}

			if flags.Changed("title") {
				pm.ApplyTitle(id, title)
				if err := commit(pm, pm.CommitTitle(ctx, id), id); err != nil {
					return err
				}
			}
			if flags.Changed("description") {
				pm.ApplyDescription(id, description)
				if err := commit(pm, pm.CommitDescription(ctx, id), id); err != nil {
					return err
				}
			}

			m, _ := pm.Marker(id)
			return output.Write(cmd.OutOrStdout(), output.Format(app.OutputFormat()), m, output.MarkerData(m, pm.Snapshot().ThumbSize))
		},
	}

	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("description", "", "new description")

	return cmd
}

// commit maps a commit outcome to an error.
func commit(pm photomap.Client, out photomap.Outcome, id string) error {
	if out == photomap.OutcomeSkipped {
		return errors.NewNotFoundError("marker", id)
	}
	if err := session.Check(pm, out); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	return nil
}
