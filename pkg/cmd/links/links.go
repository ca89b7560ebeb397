package links

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/pathutil"
	"github.com/calegray/lattice/internal/state"
)

func NewCmdLinks(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "links [name]",
		Aliases: []string{"l"},
		Short:   "Show a note's links, backlinks and second-degree neighbors.",
		Long: heredoc.Doc(`
			Prints the resolved forward links and backlinks of a note, plus
			the second-degree sets: notes reachable through its links and
			notes linking to its backlinkers.

			  lattice links roadmap
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := s.Engine.ResolveNote(args[0])
			if err != nil {
				return err
			}

			store, graph := s.Engine.Acquire()
			note, _ := store.Get(path)

			fmt.Printf("%s (%s)\n", note.Title, note.Path)
			fmt.Printf("  occurrences: %d, broken: %d\n", graph.Occurrences(path), graph.BrokenCount(path))

			printSet := func(label string, paths []string) {
				fmt.Printf("%s (%d):\n", label, len(paths))
				for _, p := range paths {
					n, ok := store.Get(p)
					if !ok {
						continue
					}
					display := p
					if rel, err := pathutil.VaultRelative(s.Vault, p); err == nil {
						display = rel
					}
					fmt.Printf("  %s (%s)\n", n.Title, display)
				}
			}

			printSet("links", graph.ForwardLinks(path))
			printSet("backlinks", graph.BackwardLinks(path))
			printSet("links, level 2", graph.Level2Links(path))
			printSet("backlinks, level 2", graph.Level2Backlinks(path))
			return nil
		},
	}

	return cmd
}
