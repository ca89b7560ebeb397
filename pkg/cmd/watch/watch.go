package watch

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/state"
)

func NewCmdWatch(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the index synchronized with the vault.",
		Long: heredoc.Doc(`
			Watches the vault for file changes and applies them to the index
			as they happen: creates, edits, deletes and renames, with rapid
			bursts per file coalesced. Runs until interrupted; the index
			snapshot is persisted on exit.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := s.StartWatcher()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Println("watching", s.Vault)
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					s.Engine.ApplyEvent(ev)
					fmt.Printf("%s %s\n", ev.Op, ev.Path)
				}
			}
		},
	}

	return cmd
}
