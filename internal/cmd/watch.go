package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ning0612/fmatch/internal/metrics"
	"github.com/Ning0612/fmatch/internal/scheduler"
	"github.com/Ning0612/fmatch/internal/service"
)

// watchFlags holds the options of the watch subcommand
type watchFlags struct {
	interval    time.Duration
	debounce    time.Duration
	metricsAddr string
	keep        int
}

// newWatchCommand creates the watch subcommand
func newWatchCommand(a *app) *cobra.Command {
	var f watchFlags

	cmd := &cobra.Command{
		Use:   "watch [target]...",
		Short: "Re-check targets whenever their files change",
		Long: `Keep checking targets (all configured targets when none is named) until
interrupted. By default the root directories are watched for filesystem
events and a check runs once events settle; with --interval the targets are
polled instead. Every check is recorded in the history under this session.

Only one watcher may run per target; a second one fails immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args, f)
		},
	}

	cmd.Flags().DurationVar(&f.interval, "interval", 0, "poll every interval instead of watching filesystem events")
	cmd.Flags().DurationVar(&f.debounce, "debounce", scheduler.DefaultDebounce, "quiet period after the last event before a check")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().IntVar(&f.keep, "keep", 0, "history entries kept per target (0 keeps all)")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, args []string, f watchFlags) error {
	names, err := a.targetNames(args)
	if err != nil {
		return err
	}

	a.metrics = metrics.New()
	if f.metricsAddr != "" {
		srv, err := serveMetrics(f.metricsAddr, a.metrics)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		a.log.Info("serving metrics", "addr", f.metricsAddr)
	}

	watchSvc, err := service.NewWatchService(a.cfg, a.metrics)
	if err != nil {
		return err
	}
	defer watchSvc.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = watchSvc.Start(ctx, service.WatchOptions{
		Targets:  names,
		Interval: f.interval,
		Debounce: f.debounce,
		Keep:     f.keep,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d target(s), session %s\n", len(names), watchSvc.Session())

	<-watchSvc.Done()
	return watchSvc.Stop()
}

// serveMetrics starts the /metrics endpoint in the background
func serveMetrics(addr string, rec *metrics.Recorder) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Surface bind errors before the watch starts
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("metrics server: %w", err)
	case <-time.After(100 * time.Millisecond):
		return srv, nil
	}
}
