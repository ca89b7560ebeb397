package stats

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/index"
	filter "github.com/calegray/lattice/internal/query"
	"github.com/calegray/lattice/internal/state"
	"github.com/calegray/lattice/internal/stats"
)

func NewCmdStats(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [expression]",
		Short: "Show vault statistics, optionally for a filtered subset.",
		Long: heredoc.Doc(`
			Prints aggregate figures over the whole vault. With a filter
			expression the figures are additionally split into the matching
			environment, classifying link occurrences as internal, incoming
			or outgoing relative to it.

			  lattice stats
			  lattice stats "#project"
		`),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	cmd.Flags().Bool("notes", false, "Include per-note link figures")
	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	store, graph := s.Engine.Acquire()

	expr := strings.Join(args, " ")
	f := filter.Parse(expr, s.Workspace.MatchAll)
	results := filter.Evaluate(f, store, graph, s.Engine.RawContent)

	local := make([]*index.Note, 0, len(results))
	for _, r := range results {
		local = append(local, r.Note)
	}

	report := stats.Collect(store, graph, local)

	fmt.Println("vault:")
	printEnvironment(report.Global)

	if expr != "" {
		fmt.Printf("\nmatching %q:\n", expr)
		printEnvironment(report.Local)
		fmt.Printf("  %-14s %d\n", "incoming", report.Local.Incoming)
		fmt.Printf("  %-14s %d\n", "outgoing", report.Local.Outgoing)
	}

	if withNotes, _ := cmd.Flags().GetBool("notes"); withNotes {
		fmt.Println()
		fmt.Printf("%-30s %9s %9s %9s %9s\n", "NOTE", "IN", "OUT", "IN(SET)", "OUT(SET)")
		for _, fig := range report.Notes {
			fmt.Printf(
				"%-30s %9d %9d %9d %9d\n",
				fig.Title, fig.GlobalIn, fig.GlobalOut, fig.LocalIn, fig.LocalOut,
			)
		}
	}
	return nil
}

func printEnvironment(env stats.Environment) {
	fmt.Printf("  %-14s %d\n", "notes", env.Notes)
	fmt.Printf("  %-14s %d\n", "words", env.Words)
	fmt.Printf("  %-14s %d\n", "characters", env.Chars)
	fmt.Printf("  %-14s %d\n", "unique tags", env.UniqueTags)
	fmt.Printf("  %-14s %d\n", "links", env.Internal)
	fmt.Printf("  %-14s %d\n", "broken links", env.Broken)
}
