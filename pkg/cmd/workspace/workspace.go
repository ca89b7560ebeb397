package workspace

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/config"
	"github.com/calegray/lattice/internal/state"
)

func NewCmdWorkspace(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage configured workspaces.",
		Long:    "Lists, adds, switches and removes workspaces. Each workspace is one vault with its own tracking rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range s.Config.WorkspaceNames() {
				marker := " "
				if name == s.Config.CurrentWorkspace {
					marker = "*"
				}
				ws := s.Config.Workspaces[name]
				fmt.Printf("%s %s\t%s\n", marker, name, ws.VaultDir)
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a workspace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vault, _ := cmd.Flags().GetString("vault")
			if vault == "" {
				return fmt.Errorf("--vault is required")
			}
			makeCurrent, _ := cmd.Flags().GetBool("switch")
			return s.Config.AddWorkspace(args[0], &config.Workspace{VaultDir: vault}, makeCurrent)
		},
	}
	addCmd.Flags().String("vault", "", "Vault directory for the new workspace")
	addCmd.Flags().Bool("switch", false, "Switch to the new workspace")

	switchCmd := &cobra.Command{
		Use:   "switch [name]",
		Short: "Switch the current workspace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.Config.SwitchWorkspace(args[0])
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove [name]",
		Short: "Remove a workspace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.Config.RemoveWorkspace(args[0])
		},
	}

	cmd.AddCommand(addCmd, switchCmd, removeCmd)
	return cmd
}
