// Package completion provides the command that prints shell completion
// scripts.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Shells that scripts can be generated for.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:

  $ source <(photomap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ photomap completion bash > /etc/bash_completion.d/photomap
  # macOS:
  $ photomap completion bash > $(brew --prefix)/etc/bash_completion.d/photomap

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ photomap completion zsh > "${fpath[1]}/_photomap"

Fish:

  $ photomap completion fish | source
  $ photomap completion fish > ~/.config/fish/completions/photomap.fish

PowerShell:

  PS> photomap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Generate(cmd.Root(), args[0], cmd)
		},
	}
}

// Generate writes the completion script for shell to cmd's output.
func Generate(root *cobra.Command, shell string, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	switch shell {
	case ShellBash:
		return root.GenBashCompletionV2(w, true)
	case ShellZsh:
		return root.GenZshCompletion(w)
	case ShellFish:
		return root.GenFishCompletion(w, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}
