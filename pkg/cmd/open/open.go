package open

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/fzf"
	"github.com/calegray/lattice/internal/state"
)

func NewCmdOpen(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open [name]",
		Aliases: []string{"o"},
		Short:   "Open a note in the configured editor.",
		Long:    "Opens the named note in the workspace editor. Without a name, a fuzzy picker is shown.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				path string
				err  error
			)
			if len(args) == 1 {
				path, err = s.Engine.ResolveNote(args[0])
			} else {
				finder := fzf.NewFuzzyFinder(s.Engine, "Select note to open.")
				path, err = finder.Run()
			}
			if err != nil {
				return err
			}
			return LaunchEditor(s, path)
		},
	}

	return cmd
}

// LaunchEditor opens path in the workspace editor, attached to the
// terminal, and waits for it to exit.
func LaunchEditor(s *state.State, path string) error {
	editor := s.Workspace.Editor
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", editor, err)
	}
	return nil
}
