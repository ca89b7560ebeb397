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
package root

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/config"
	"github.com/calegray/lattice/internal/state"
	"github.com/calegray/lattice/pkg/cmd/delete"
	"github.com/calegray/lattice/pkg/cmd/export"
	"github.com/calegray/lattice/pkg/cmd/initialize"
	"github.com/calegray/lattice/pkg/cmd/links"
	"github.com/calegray/lattice/pkg/cmd/move"
	"github.com/calegray/lattice/pkg/cmd/new"
	"github.com/calegray/lattice/pkg/cmd/open"
	"github.com/calegray/lattice/pkg/cmd/path"
	"github.com/calegray/lattice/pkg/cmd/pick"
	"github.com/calegray/lattice/pkg/cmd/query"
	"github.com/calegray/lattice/pkg/cmd/rename"
	"github.com/calegray/lattice/pkg/cmd/stats"
	"github.com/calegray/lattice/pkg/cmd/tags"
	"github.com/calegray/lattice/pkg/cmd/tui"
	"github.com/calegray/lattice/pkg/cmd/watch"
	"github.com/calegray/lattice/pkg/cmd/workspace"
)

// NewCmd builds the lattice command tree. The index state is constructed
// up front so every subcommand shares one engine; init is special-cased
// because it must run before a configuration exists.
func NewCmd() (*cobra.Command, error) {
	if bootstrapInvocation() {
		return newBootstrapCmd(), nil
	}

	s, err := state.NewState(workspaceOverride())
	if err != nil {
		var initErr *config.ConfigInitError
		if errors.As(err, &initErr) {
			return nil, fmt.Errorf("%v\nrun 'lattice init' to configure a vault", err)
		}
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Index and navigate a directory of interlinked notes.",
		Long: heredoc.Doc(`
			lattice keeps a live index over a directory of markdown notes:
			titles, tags, the bidirectional link graph and word counts. It
			answers queries over that index, follows renames through every
			referencing note and exports linked HTML.

			  lattice query "#project !#done >roadmap"
			  lattice links roadmap
			  lattice rename roadmap roadmap-2026
		`),
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.Close()
		},
		RunE: tui.NewCmdTui(s).RunE,
	}

	cmd.PersistentFlags().
		StringP("workspace", "w", "", "Workspace to use for this command.")

	cmd.AddCommand(
		initialize.NewCmdInit(),
		new.NewCmdNew(s),
		rename.NewCmdRename(s),
		move.NewCmdMove(s),
		delete.NewCmdDelete(s),
		open.NewCmdOpen(s),
		pick.NewCmdPick(s),
		query.NewCmdQuery(s),
		stats.NewCmdStats(s),
		links.NewCmdLinks(s),
		tags.NewCmdTags(s),
		path.NewCmdPath(s),
		export.NewCmdExport(s),
		watch.NewCmdWatch(s),
		tui.NewCmdTui(s),
		workspace.NewCmdWorkspace(s),
	)

	return cmd, nil
}

// bootstrapInvocation reports whether this run must work without a loaded
// configuration.
func bootstrapInvocation() bool {
	if len(os.Args) < 2 {
		return false
	}
	switch os.Args[1] {
	case "init", "initialize", "help", "--help", "-h", "completion":
		return true
	}
	return false
}

func newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lattice",
		Short:        "Index and navigate a directory of interlinked notes.",
		SilenceUsage: true,
	}
	cmd.AddCommand(initialize.NewCmdInit())
	return cmd
}

// workspaceOverride pre-scans the arguments for the workspace flag; the
// override has to be known before cobra parses anything because the state
// is built first.
func workspaceOverride() string {
	args := os.Args[1:]
	for i, arg := range args {
		switch {
		case arg == "-w" || arg == "--workspace":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(arg) > len("--workspace=") && arg[:len("--workspace=")] == "--workspace=":
			return arg[len("--workspace="):]
		}
	}
	return ""
}
