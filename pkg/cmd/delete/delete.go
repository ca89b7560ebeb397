package delete

import (
	"fmt"

	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/state"
)

func NewCmdDelete(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm"},
		Short:   "Delete a note from the vault.",
		Long:    "Removes the note's file and drops it from the index. Links pointing at it become broken links.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := s.Engine.ResolveNote(args[0])
			if err != nil {
				return err
			}

			if force, _ := cmd.Flags().GetBool("force"); !force {
				confirm := confirmation.New(
					fmt.Sprintf("Delete %s?", path),
					confirmation.No,
				)
				ok, err := confirm.RunPrompt()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			return s.Engine.DeleteNote(path)
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Delete without confirmation")
	return cmd
}
