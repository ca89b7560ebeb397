package path

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/state"
)

func NewCmdPath(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path [name]",
		Short: "Print the canonical path of a note.",
		Long:  "Resolves a note name or title to its canonical path. With --copy the path is also placed on the system clipboard.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := s.Engine.ResolveNote(args[0])
			if err != nil {
				return err
			}
			fmt.Println(path)

			if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
				if err := clipboard.WriteAll(path); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolP("copy", "c", false, "Copy the path to the clipboard")
	return cmd
}
