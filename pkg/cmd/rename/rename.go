package rename

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/state"
)

func NewCmdRename(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename [name] [new-name]",
		Short: "Rename a note and update every link to it.",
		Long: heredoc.Doc(`
			Renames the note's file in place and rewrites links in every note
			that references it, wiki and inline alike. Notes edited since
			their last indexing are left untouched and reported; a reload
			picks them up.

			  lattice rename roadmap roadmap-2026
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := s.Engine.RenameNote(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	return cmd
}
