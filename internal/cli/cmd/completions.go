package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/berrythewa/pueue/internal/command"
)

// completionFiles maps supported shells to the script file name they load.
var completionFiles = map[string]string{
	"bash":       "pueue.bash",
	"zsh":        "_pueue",
	"fish":       "pueue.fish",
	"powershell": "_pueue.ps1",
}

func newCompletionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completions <shell> <output_directory>",
		Short:     "Generate shell completion scripts",
		Long:      `Generate a completion script for bash, zsh, fish or powershell into the given directory.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, command.Completions{Shell: args[0], OutputDirectory: args[1]})
		},
	}
}

// writeCompletions generates the script for c.Shell from the root command.
// It runs entirely in the client; nothing is sent to the daemon.
func writeCompletions(root *cobra.Command, c command.Completions, out io.Writer) error {
	name, ok := completionFiles[c.Shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q", c.Shell)
	}
	if err := os.MkdirAll(c.OutputDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(c.OutputDirectory, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create completion file: %w", err)
	}
	defer f.Close()

	switch c.Shell {
	case "bash":
		err = root.GenBashCompletionV2(f, true)
	case "zsh":
		err = root.GenZshCompletion(f)
	case "fish":
		err = root.GenFishCompletion(f, true)
	case "powershell":
		err = root.GenPowerShellCompletionWithDesc(f)
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s completions: %w", c.Shell, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s completions to %s\n", c.Shell, path)
	return nil
}
