package new

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/state"
	"github.com/calegray/lattice/pkg/cmd/open"
)

func NewCmdNew(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "new [name]",
		Aliases: []string{"n"},
		Short:   "Create a new note in the vault.",
		Long: heredoc.Doc(`
			Creates a note file under the vault, seeded with a title heading,
			and registers it in the index immediately. The name may include a
			subdirectory; missing directories are created. Without an
			extension the workspace's first tracked file type is used.

			  lattice new inbox/meeting-notes
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := s.Engine.CreateNote(args[0])
			if err != nil {
				return err
			}
			fmt.Println(path)

			if openFlag, _ := cmd.Flags().GetBool("open"); openFlag {
				return open.LaunchEditor(s, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("open", "o", false, "Open the new note in the configured editor")
	return cmd
}
