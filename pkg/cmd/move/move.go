package move

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/state"
)

func NewCmdMove(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "move [name] [destination]",
		Aliases: []string{"mv"},
		Short:   "Move a note within the vault.",
		Long: heredoc.Doc(`
			Moves the note under a vault-relative destination and updates
			links if the file name changes. A destination ending in / (or
			naming an existing directory) keeps the current file name.

			  lattice move meeting-notes archive/2026/
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := s.Engine.MoveNote(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	return cmd
}
