package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/core/match"
	"github.com/Ning0612/fmatch/internal/entity"
)

// entryView is one matched path in list output
type entryView struct {
	Path string `json:"path" yaml:"path"`
	Kind string `json:"kind" yaml:"kind"`
}

// newListCommand creates the list subcommand
func newListCommand(a *app) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List every matched path with its kind",
		Long: `Resolve the pattern and print every matched path, classified as file or
folder at the time of listing.

Examples:
  fmatch list '**/*.go' --cwd ~/src/project
  fmatch list --target docs --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolveTarget(&src, args)
			if err != nil {
				return err
			}
			m, err := a.openMatch(cmd.Context(), t)
			if err != nil {
				return err
			}

			entries, err := match.All(m, func(e entity.Entity) (entryView, error) {
				return entryView{Path: e.Rel(), Kind: e.Kind().String()}, nil
			})
			if err != nil {
				return err
			}

			return a.printer(cmd).print(entries, func(w io.Writer) error {
				for _, e := range entries {
					fmt.Fprintf(w, "%s  %s\n", kindLabel(e.Kind), e.Path)
				}
				return nil
			})
		},
	}

	src.register(cmd)
	return cmd
}
