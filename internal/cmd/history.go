package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/state"
)

// newHistoryCommand creates the history subcommand
func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "Show recorded fingerprints, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}

			store, err := state.NewManager(a.cfg.StateDir)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.History(target, limit)
			if err != nil {
				return err
			}
			if records == nil {
				records = []state.Record{}
			}

			return a.printer(cmd).print(records, func(w io.Writer) error {
				if len(records) == 0 {
					fmt.Fprintln(w, "No fingerprints recorded")
					return nil
				}
				for _, r := range records {
					fmt.Fprintf(w, "%s  %-16s %s  %5d files  %10s",
						dimColor.Sprint(r.CheckedAt.Local().Format(time.DateTime)),
						r.Target,
						shortHash(r.Hash),
						r.FileCount,
						formatBytes(r.TotalBytes),
					)
					if r.Session != "" {
						fmt.Fprintf(w, "  %s", dimColor.Sprint(r.Session))
					}
					fmt.Fprintln(w)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	return cmd
}
