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
package query

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	filter "github.com/calegray/lattice/internal/query"
	"github.com/calegray/lattice/internal/state"
)

func NewCmdQuery(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query [expression]",
		Aliases: []string{"q"},
		Short:   "Query the note index with a filter expression.",
		Long: heredoc.Doc(`
			Evaluates a filter expression against every indexed note and
			prints the matches, best fuzzy title match first.

			Expression tokens, any of them negatable with a leading !:
			  #tag      note carries the tag (or a nested child of it)
			  >name     note links to the named note
			  <name     note is linked from the named note
			  words     fuzzy match against the title
			  | text    the note's content contains the text

			By default one matching token suffices; --all (or the
			workspace's match_all setting) requires every token.

			  lattice query "#project !#done >roadmap"
			  lattice query --since "2 weeks ago" "| postgres"
		`),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	cmd.Flags().Bool("all", false, "Require every filter token to match")
	cmd.Flags().Bool("any", false, "Let any single filter token match")
	cmd.Flags().String("since", "", "Only notes modified after this time (free-form date)")
	cmd.Flags().Bool("paths", false, "Print matching paths only")
	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	matchAll := s.Workspace.MatchAll
	if v, _ := cmd.Flags().GetBool("all"); v {
		matchAll = true
	}
	if v, _ := cmd.Flags().GetBool("any"); v {
		matchAll = false
	}

	var since time.Time
	if raw, _ := cmd.Flags().GetString("since"); raw != "" {
		parsed, err := dateparse.ParseAny(raw)
		if err != nil {
			return fmt.Errorf("could not parse --since value %q: %w", raw, err)
		}
		since = parsed
	}

	store, graph := s.Engine.Acquire()
	f := filter.Parse(strings.Join(args, " "), matchAll)
	results := filter.Evaluate(f, store, graph, s.Engine.RawContent)

	if !since.IsZero() {
		kept := results[:0]
		for _, r := range results {
			if r.Note.ModTime.After(since) {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	if pathsOnly, _ := cmd.Flags().GetBool("paths"); pathsOnly {
		for _, r := range results {
			fmt.Println(r.Note.Path)
		}
		return nil
	}

	if len(results) == 0 {
		fmt.Println("no matching notes")
		return nil
	}

	width := terminalWidth()
	titleWidth := width / 3
	fmt.Printf("%-*s  %6s  %s\n", titleWidth, "TITLE", "WORDS", "TAGS")
	for _, r := range results {
		fmt.Printf(
			"%-*s  %6d  %s\n",
			titleWidth,
			truncate(r.Note.Title, titleWidth),
			r.Note.Words,
			strings.Join(r.Note.Tags, ", "),
		)
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}

func truncate(text string, width int) string {
	if width < 4 || len(text) <= width {
		return text
	}
	return text[:width-3] + "..."
}
