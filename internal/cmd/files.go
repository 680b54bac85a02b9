package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/core/checksum"
	"github.com/Ning0612/fmatch/internal/core/match"
	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/entity"
)

// fileView is one matched file in files output
type fileView struct {
	domain.FileInfo `yaml:",inline"`
	Checksum        string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// newFilesCommand creates the files subcommand
func newFilesCommand(a *app) *cobra.Command {
	var (
		src     sourceFlags
		withSum bool
		algo    string
	)

	cmd := &cobra.Command{
		Use:   "files [pattern]",
		Short: "List matched files with size and modification time",
		Long: `Resolve the pattern and print every matched path that is a regular file.
Folders are skipped.

Examples:
  fmatch files '**/*.md' --checksum
  fmatch files --target docs --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm := checksum.Algorithm(algo)
			if withSum && !checksum.IsSupported(algorithm) {
				return fmt.Errorf("unsupported checksum algorithm %q", algo)
			}

			t, err := a.resolveTarget(&src, args)
			if err != nil {
				return err
			}
			m, err := a.openMatch(cmd.Context(), t)
			if err != nil {
				return err
			}

			calc := checksum.NewDefaultCalculator()
			files, err := match.Files(m, func(f *entity.File) (fileView, error) {
				info, err := f.Info()
				if err != nil {
					return fileView{}, err
				}
				view := fileView{FileInfo: info}
				if withSum {
					view.Checksum, err = f.Checksum(cmd.Context(), calc, algorithm)
					if err != nil {
						return fileView{}, err
					}
				}
				return view, nil
			})
			if err != nil {
				return err
			}
			if files == nil {
				files = []fileView{}
			}

			return a.printer(cmd).print(files, func(w io.Writer) error {
				for _, f := range files {
					fmt.Fprintf(w, "%10s  %s  %s", formatBytes(f.Size), dimColor.Sprint(f.ModTime.Format(time.RFC3339)), f.Path)
					if f.Checksum != "" {
						fmt.Fprintf(w, "  %s", f.Checksum)
					}
					fmt.Fprintln(w)
				}
				return nil
			})
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&withSum, "checksum", false, "compute a content checksum of every file")
	cmd.Flags().StringVar(&algo, "algo", string(checksum.SHA256), "checksum algorithm: sha256, md5")
	return cmd
}

// newFoldersCommand creates the folders subcommand
func newFoldersCommand(a *app) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "folders [pattern]",
		Short: "List matched folders",
		Long: `Resolve the pattern and print every matched path that is a directory.
Files are skipped.`,
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

			folders, err := match.Folders(m, func(f *entity.Folder) (string, error) {
				return f.Rel(), nil
			})
			if err != nil {
				return err
			}
			if folders == nil {
				folders = []string{}
			}

			return a.printer(cmd).print(folders, func(w io.Writer) error {
				for _, f := range folders {
					fmt.Fprintln(w, folderColor.Sprint(f))
				}
				return nil
			})
		},
	}

	src.register(cmd)
	return cmd
}
