package completion

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "photomap"}
	root.AddCommand(NewCommand())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"completion"}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestCompletionShells(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{ShellBash, "__start_photomap"},
		{ShellZsh, "#compdef photomap"},
		{ShellFish, "complete -c photomap"},
		{ShellPowerShell, "Register-ArgumentCompleter"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := run(t, tt.shell)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCompletionUnknownShell(t *testing.T) {
	_, err := run(t, "tcsh")
	assert.Error(t, err)
}
