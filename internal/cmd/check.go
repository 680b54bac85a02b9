package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/service"
	"github.com/Ning0612/fmatch/internal/state"
)

// newCheckCommand creates the check subcommand
func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [target]...",
		Short: "Compare targets against their last recorded fingerprint",
		Long: `Fingerprint each target (all configured targets when none is named),
compare with the last recorded fingerprint and record the new one.

Exit code: 0 if nothing changed, 2 if any target changed, 1 on errors.
The first check of a target only records its fingerprint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.targetNames(args)
			if err != nil {
				return err
			}

			store, err := state.NewManager(a.cfg.StateDir)
			if err != nil {
				return err
			}
			defer store.Close()

			checkSvc, err := service.NewCheckService(a.cfg, store, a.metrics, a.log, "")
			if err != nil {
				return err
			}

			results, checkErr := checkSvc.CheckAll(cmd.Context(), names)
			var changed []string
			for _, res := range results {
				if res.Changed {
					changed = append(changed, res.Target)
				}
			}

			err = a.printer(cmd).print(results, func(w io.Writer) error {
				for _, r := range results {
					printCheck(w, r)
				}
				return nil
			})
			if err != nil {
				return err
			}

			if checkErr != nil {
				return checkErr
			}
			if len(changed) > 0 {
				return fmt.Errorf("%w: %s", domain.ErrChanged, strings.Join(changed, ", "))
			}
			return nil
		},
	}

	return cmd
}

func printCheck(w io.Writer, r *service.CheckResult) {
	var status string
	switch {
	case r.Previous == "":
		status = addedColor.Sprint("recorded ")
	case r.Changed:
		status = changedColor.Sprint("changed  ")
	default:
		status = dimColor.Sprint("unchanged")
	}

	fmt.Fprintf(w, "%s  %-16s %s  %d files, %s\n", status, r.Target, shortHash(r.Hash), r.FileCount, formatBytes(r.TotalBytes))
	if r.Changed && r.Previous != "" {
		fmt.Fprintf(w, "           was %s\n", shortHash(r.Previous))
	}

	if r.Changes == nil {
		return
	}
	for _, p := range r.Changes.Added {
		fmt.Fprintf(w, "  %s %s\n", addedColor.Sprint("+"), p)
	}
	for _, p := range r.Changes.Removed {
		fmt.Fprintf(w, "  %s %s\n", removedColor.Sprint("-"), p)
	}
	for _, p := range r.Changes.Modified {
		fmt.Fprintf(w, "  %s %s\n", changedColor.Sprint("~"), p)
	}
}
