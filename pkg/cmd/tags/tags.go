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
package tags

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calegray/lattice/internal/index"
	"github.com/calegray/lattice/internal/state"
)

func NewCmdTags(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags [tag]",
		Short: "List tags, or the notes carrying one tag.",
		Long:  "Without arguments, lists every tag with its note count. With a tag, lists the notes carrying it or any nested child of it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _ := s.Engine.Acquire()
			tagIndex := index.BuildTagIndex(store)

			if len(args) == 1 {
				for _, path := range tagIndex.Notes(args[0]) {
					if note, ok := store.Get(path); ok {
						fmt.Printf("%s (%s)\n", note.Title, path)
					}
				}
				return nil
			}

			for _, tag := range tagIndex.Tags() {
				fmt.Printf("%5d  #%s\n", tagIndex.Count(tag), tag)
			}
			return nil
		},
	}

	return cmd
}
