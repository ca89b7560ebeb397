/*
Copyright © 2025 Cale Gray

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package initialize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/config"
	"github.com/calegray/lattice/internal/constants"
	"github.com/calegray/lattice/internal/state"
)

func NewCmdInit() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "initialize",
		Aliases: []string{"i", "init"},
		Short:   "Set up the lattice configuration and vault.",
		Long:    "This command walks you through configuring your vault directory and editor.",
		Example: "lattice init",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	return cmd
}

func run() error {
	home, err := state.GetHomeDir()
	if err != nil {
		return err
	}

	vaultInput := textinput.New("Vault directory:")
	vaultInput.InitialValue = filepath.Join(home, "notes")
	vaultDir, err := vaultInput.RunPrompt()
	if err != nil {
		return err
	}

	editors := make([]string, 0, len(config.ValidEditors))
	for name := range config.ValidEditors {
		editors = append(editors, name)
	}
	sort.Strings(editors)

	editorSelect := selection.New("Editor:", editors)
	editorSelect.PageSize = len(editors)
	editor, err := editorSelect.RunPrompt()
	if err != nil {
		return err
	}

	if _, err := os.Stat(vaultDir); os.IsNotExist(err) {
		create := confirmation.New(
			fmt.Sprintf("Vault directory %s does not exist. Create it?", vaultDir),
			confirmation.Yes,
		)
		ok, err := create.RunPrompt()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("vault directory %s does not exist", vaultDir)
		}
		if err := os.MkdirAll(vaultDir, 0o755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	cfg := &config.Config{
		Workspaces: map[string]*config.Workspace{
			constants.DefaultWorkspace: {
				VaultDir:  vaultDir,
				Editor:    editor,
				FileTypes: []string{constants.DefaultFileType},
			},
		},
		CurrentWorkspace: constants.DefaultWorkspace,
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Println("Configuration written to", cfg.GetConfigPath())
	return nil
}
