package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ning0612/fmatch/internal/config"
	"github.com/Ning0612/fmatch/internal/lock"
	"github.com/Ning0612/fmatch/internal/logger"
	"github.com/Ning0612/fmatch/internal/metrics"
	"github.com/Ning0612/fmatch/internal/scheduler"
	"github.com/Ning0612/fmatch/internal/state"
)

// WatchOptions configures a watch session
type WatchOptions struct {
	// Targets to watch, empty means every configured target
	Targets []string

	// Interval polls the targets when positive; otherwise their roots are
	// watched for filesystem events
	Interval time.Duration

	// Debounce is the quiet period after the last event (event mode)
	Debounce time.Duration

	// Keep is the number of history entries kept per target, 0 keeps all
	Keep int
}

// runningScheduler is a scheduler whose loop exit can be awaited
type runningScheduler interface {
	scheduler.Scheduler
	Done() <-chan struct{}
}

// WatchService re-checks targets until stopped.
// It holds one lock per watched target so only one session watches a target at a time.
type WatchService struct {
	mu        sync.RWMutex
	config    *config.Config
	session   string
	log       logger.Logger
	checkSvc  *CheckService
	stateMgr  *state.Manager
	scheduler runningScheduler
	locks     []*lock.FileLock
	targets   []string
}

// WatchStatus represents the current watch session status
type WatchStatus struct {
	Running        bool
	Session        string
	Targets        []string
	SchedulerStats *scheduler.Status
	LastCheck      *state.Record
}

// NewWatchService creates a watch service with a fresh session id
func NewWatchService(cfg *config.Config, rec *metrics.Recorder) (*WatchService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	stateMgr, err := state.NewManager(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create state manager: %w", err)
	}

	session := uuid.NewString()
	log := logger.Get().With("component", "watch", "session", session)

	checkSvc, err := NewCheckService(cfg, stateMgr, rec, log, session)
	if err != nil {
		stateMgr.Close()
		return nil, err
	}

	return &WatchService{
		config:   cfg,
		session:  session,
		log:      log,
		checkSvc: checkSvc,
		stateMgr: stateMgr,
	}, nil
}

// Session returns the id tagging every record of this service
func (w *WatchService) Session() string {
	return w.session
}

// Start locks the targets and starts the scheduler in the background.
// Returns domain.ErrWatcherRunning (as *lock.LockError) if another session watches one of them.
func (w *WatchService) Start(ctx context.Context, opts WatchOptions) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.scheduler != nil {
		return fmt.Errorf("watch is already running")
	}

	names := opts.Targets
	if len(names) == 0 {
		names = w.config.TargetNames()
	}
	if len(names) == 0 {
		return fmt.Errorf("no targets to watch")
	}
	for _, name := range names {
		if _, err := w.config.GetTarget(name); err != nil {
			return err
		}
	}

	if err := w.acquireLocks(names); err != nil {
		return err
	}

	w.checkSvc.Keep = opts.Keep

	sched, err := w.newScheduler(names, opts)
	if err != nil {
		w.releaseLocks()
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		if c, ok := sched.(interface{ Close() error }); ok {
			c.Close()
		}
		w.releaseLocks()
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	w.scheduler = sched
	w.targets = names
	w.log.Info("watch started", "targets", names, "interval", opts.Interval)

	return nil
}

func (w *WatchService) acquireLocks(names []string) error {
	for _, name := range names {
		l, err := lock.NewFileLock(w.config.LockPath(name))
		if err != nil {
			w.releaseLocks()
			return err
		}
		if err := l.Acquire(name, w.session); err != nil {
			w.releaseLocks()
			return err
		}
		w.locks = append(w.locks, l)
	}
	return nil
}

func (w *WatchService) releaseLocks() {
	for _, l := range w.locks {
		if err := l.Release(); err != nil {
			w.log.Warn("failed to release lock", "path", l.Path(), "error", err)
		}
	}
	w.locks = nil
}

// newScheduler picks the polling or the filesystem event scheduler
func (w *WatchService) newScheduler(names []string, opts WatchOptions) (runningScheduler, error) {
	if opts.Interval > 0 {
		return scheduler.NewIntervalScheduler(scheduler.Config{
			Mode:       scheduler.ModeInterval,
			Interval:   opts.Interval,
			Targets:    names,
			RunOnStart: true,
		}, w.checkSvc)
	}

	roots := make(map[string][]string)
	for _, name := range names {
		t, err := w.config.GetTarget(name)
		if err != nil {
			return nil, err
		}
		root := t.Cwd
		if root == "" {
			if root, err = os.Getwd(); err != nil {
				return nil, err
			}
		}
		roots[root] = append(roots[root], name)
	}

	return scheduler.NewWatchScheduler(scheduler.Config{
		Mode:       scheduler.ModeWatch,
		Debounce:   opts.Debounce,
		Roots:      roots,
		RunOnStart: true,
	}, w.checkSvc)
}

// Done is closed once the scheduler loop has exited, e.g. because the context
// given to Start ended. It is nil before Start.
func (w *WatchService) Done() <-chan struct{} {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.scheduler == nil {
		return nil
	}
	return w.scheduler.Done()
}

// Stop stops the scheduler and releases the target locks
func (w *WatchService) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.scheduler == nil {
		return fmt.Errorf("watch is not running")
	}

	var err error
	if stopErr := w.scheduler.Stop(); stopErr != nil {
		// The loop may already have exited with its context
		select {
		case <-w.scheduler.Done():
		case <-time.After(time.Second):
			err = fmt.Errorf("failed to stop scheduler: %w", stopErr)
		}
	}

	st := w.scheduler.Status()
	w.log.Info("watch stopped", "runs", st.TotalRuns, "failed", st.FailedRuns)

	w.scheduler = nil
	w.targets = nil
	w.releaseLocks()
	return err
}

// Status returns the current watch status
func (w *WatchService) Status() *WatchStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := &WatchStatus{
		Session: w.session,
		Targets: w.targets,
	}

	if w.scheduler != nil {
		status.SchedulerStats = w.scheduler.Status()
		status.Running = status.SchedulerStats.Running
	}

	// Most recent check of any target
	if w.stateMgr != nil {
		history, err := w.stateMgr.History("", 1)
		if err == nil && len(history) > 0 {
			status.LastCheck = &history[0]
		}
	}

	return status
}

// Close stops a running watch and releases all resources
func (w *WatchService) Close() error {
	var errs []error

	w.mu.RLock()
	running := w.scheduler != nil
	w.mu.RUnlock()
	if running {
		errs = append(errs, w.Stop())
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stateMgr != nil {
		errs = append(errs, w.stateMgr.Close())
		w.stateMgr = nil
	}

	return errors.Join(errs...)
}
