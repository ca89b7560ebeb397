package pick

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/fzf"
	"github.com/calegray/lattice/internal/state"
	"github.com/calegray/lattice/pkg/cmd/open"
)

func NewCmdPick(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pick [query]",
		Aliases: []string{"p", "find"},
		Short:   "Fuzzy-pick a note with a markdown preview.",
		Long:    "Opens an interactive fuzzy finder over every indexed note, previewing the highlighted note, and opens the selection in the editor.",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			finder := fzf.NewFuzzyFinder(s.Engine, "Select note.")
			path, err := finder.RunWithQuery(strings.Join(args, " "))
			if err != nil {
				return err
			}

			if print, _ := cmd.Flags().GetBool("print"); print {
				fmt.Println(path)
				return nil
			}
			return open.LaunchEditor(s, path)
		},
	}

	cmd.Flags().BoolP("print", "p", false, "Print the selected path instead of opening it")
	return cmd
}
