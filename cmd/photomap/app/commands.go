package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/photomap/cmd/photomap/cmd/auth"
	"github.com/agentstation/photomap/cmd/photomap/cmd/completion"
	"github.com/agentstation/photomap/cmd/photomap/cmd/edit"
	"github.com/agentstation/photomap/cmd/photomap/cmd/export"
	"github.com/agentstation/photomap/cmd/photomap/cmd/hashtags"
	"github.com/agentstation/photomap/cmd/photomap/cmd/markers"
	"github.com/agentstation/photomap/cmd/photomap/cmd/serve"
	"github.com/agentstation/photomap/cmd/photomap/cmd/tag"
	"github.com/agentstation/photomap/cmd/photomap/cmd/upload"
	"github.com/agentstation/photomap/cmd/photomap/cmd/watch"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(markers.NewCommand(a))
	rootCmd.AddCommand(hashtags.NewCommand(a))
	rootCmd.AddCommand(edit.NewCommand(a))
	rootCmd.AddCommand(tag.NewCommand(a))
	rootCmd.AddCommand(upload.NewCommand(a))
	rootCmd.AddCommand(watch.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(auth.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(a.newManCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("photomap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// newManCommand creates the man command.
func (a *App) newManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Long:   `Generate the man page for the photomap CLI tool.`,
		Hidden: true, // mainly for packaging
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "PHOTOMAP",
				Section: "1",
				Source:  "photomap " + a.version,
				Manual:  "photomap Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
