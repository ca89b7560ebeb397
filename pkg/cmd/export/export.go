package export

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/render"
	"github.com/calegray/lattice/internal/state"
)

func NewCmdExport(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Export notes as interlinked HTML.",
		Long: heredoc.Doc(`
			Renders notes to standalone HTML files. Wiki links to other
			indexed notes become relative links between the exported files;
			broken links degrade to plain text.

			  lattice export roadmap
			  lattice export --all --out ./site
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	cmd.Flags().Bool("all", false, "Export every indexed note")
	cmd.Flags().String("out", "lattice-export", "Output directory")
	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	all, _ := cmd.Flags().GetBool("all")
	outDir, _ := cmd.Flags().GetString("out")

	if !all && len(args) == 0 {
		return fmt.Errorf("name a note to export, or pass --all")
	}

	store, _ := s.Engine.Acquire()
	renderer := render.New(func(target string) bool {
		_, ok := store.Resolve(target)
		return ok
	})

	notes := store.Notes()
	if !all {
		path, err := s.Engine.ResolveNote(args[0])
		if err != nil {
			return err
		}
		note, _ := store.Get(path)
		notes = notes[:0]
		notes = append(notes, note)
	}

	for _, note := range notes {
		content, err := s.Engine.RawContent(note.Path)
		if err != nil {
			return fmt.Errorf("read %s: %w", note.Path, err)
		}
		written, err := renderer.Export(note, content, outDir)
		if err != nil {
			return fmt.Errorf("export %s: %w", note.Path, err)
		}
		fmt.Println(written)
	}
	return nil
}
