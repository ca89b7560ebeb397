package tui

import (
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/state"
	"github.com/calegray/lattice/internal/tui"
)

func NewCmdTui(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tui",
		Aliases: []string{"browse"},
		Short:   "Browse the index interactively.",
		Long:    "Opens the interactive browser: a filter input over the query engine, the matching notes and a statistics footer.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(s)
		},
	}

	return cmd
}
