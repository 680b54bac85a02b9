package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/core/match"
	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/entity"
	"github.com/Ning0612/fmatch/internal/state"
)

// hashView is the output of the hash subcommand
type hashView struct {
	Target  string             `json:"target,omitempty" yaml:"target,omitempty"`
	Pattern string             `json:"pattern" yaml:"pattern"`
	Cwd     string             `json:"cwd" yaml:"cwd"`
	Hash    string             `json:"hash" yaml:"hash"`
	Files   int                `json:"files" yaml:"files"`
	Options domain.HashOptions `json:"options" yaml:"options"`
}

// newHashCommand creates the hash subcommand
func newHashCommand(a *app) *cobra.Command {
	var (
		src          sourceFlags
		lastModified bool
		size         bool
		record       bool
	)

	cmd := &cobra.Command{
		Use:   "hash [pattern]",
		Short: "Print the SHA-256 fingerprint of the matched file list",
		Long: `Compute a fingerprint of the matched files. Every file contributes its
relative path, and optionally its modification time and size, so the
fingerprint changes when files are added, removed or (with the flags) touched.
Folders do not contribute.

With --target, the target's configured hash options apply unless the flags are
given explicitly, and --record stores the fingerprint in the history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolveTarget(&src, args)
			if err != nil {
				return err
			}
			if record && t.Name == "" {
				return fmt.Errorf("--record requires --target")
			}

			opts := t.HashOptions
			if cmd.Flags().Changed("last-modified") || t.Name == "" {
				opts.IncludeLastModified = lastModified
			}
			if cmd.Flags().Changed("size") || t.Name == "" {
				opts.IncludeSize = size
			}

			m, err := a.openMatch(cmd.Context(), t)
			if err != nil {
				return err
			}
			hash, err := m.GenerateFileListHash(opts.IncludeLastModified, opts.IncludeSize)
			if err != nil {
				return err
			}
			sizes, err := match.Files(m, func(f *entity.File) (int64, error) { return f.Size() })
			if err != nil {
				return err
			}

			if record {
				if err := a.recordHash(t.Name, hash, sizes); err != nil {
					return err
				}
			}

			view := hashView{
				Target:  t.Name,
				Pattern: m.Pattern(),
				Cwd:     m.Cwd(),
				Hash:    hash,
				Files:   len(sizes),
				Options: opts,
			}
			return a.printer(cmd).print(view, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, hash)
				return err
			})
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&lastModified, "last-modified", false, "include modification times in the fingerprint")
	cmd.Flags().BoolVar(&size, "size", false, "include file sizes in the fingerprint")
	cmd.Flags().BoolVar(&record, "record", false, "store the fingerprint in the target's history")
	return cmd
}

func (a *app) recordHash(target, hash string, sizes []int64) error {
	store, err := state.NewManager(a.cfg.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	var total int64
	for _, s := range sizes {
		total += s
	}
	_, err = store.Save(state.Record{
		Target:     target,
		Hash:       hash,
		FileCount:  len(sizes),
		TotalBytes: total,
	})
	return err
}
