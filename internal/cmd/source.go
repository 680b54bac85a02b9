package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/config"
	"github.com/Ning0612/fmatch/internal/core/match"
	"github.com/Ning0612/fmatch/internal/domain"
)

// sourceFlags select what a browsing command matches: an ad hoc pattern or a configured target
type sourceFlags struct {
	target  string
	cwd     string
	exclude []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "configured target to use instead of a pattern")
	cmd.Flags().StringVar(&f.cwd, "cwd", "", "root directory the pattern is resolved against (default: working directory)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "glob patterns dropped from the match (repeatable)")
}

// resolveTarget turns the flags and the optional pattern argument into a target
func (a *app) resolveTarget(f *sourceFlags, args []string) (*domain.Target, error) {
	if f.target != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("a pattern argument cannot be combined with --target")
		}
		return a.cfg.GetTarget(f.target)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("requires a pattern argument or --target")
	}

	t := &domain.Target{
		Pattern: args[0],
		Exclude: f.exclude,
	}
	if f.cwd != "" {
		t.Cwd = config.ExpandPath(f.cwd)
	}
	return t, nil
}

// openMatch builds a synchronous match for target, resolved before it returns
func (a *app) openMatch(ctx context.Context, t *domain.Target) (*match.Match, error) {
	filter, err := config.TargetFilter(t)
	if err != nil {
		return nil, err
	}

	return match.Sync(ctx, t.Pattern, match.Options{
		Cwd:     t.Cwd,
		Filter:  filter,
		Logger:  a.log,
		Metrics: a.metrics,
	})
}

// targetNames returns args, or every configured target when args is empty
func (a *app) targetNames(args []string) ([]string, error) {
	if len(args) > 0 {
		for _, name := range args {
			if _, err := a.cfg.GetTarget(name); err != nil {
				return nil, err
			}
		}
		return args, nil
	}

	if len(a.cfg.Targets) == 0 {
		return nil, fmt.Errorf("%w: no targets configured", domain.ErrTargetNotFound)
	}
	return a.cfg.TargetNames(), nil
}
