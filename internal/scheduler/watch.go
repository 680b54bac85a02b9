package scheduler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Ning0612/fmatch/internal/logger"
)

// WatchScheduler runs targets after filesystem changes below their roots.
// Bursts of events are coalesced: a run happens once no event arrived for the debounce period.
type WatchScheduler struct {
	config  Config
	runner  Runner
	watcher *fsnotify.Watcher
	log     logger.Logger

	// Runtime state, guarded by stats.mu
	stopped     bool
	stopOnce    sync.Once
	closeOnce   sync.Once
	stopChan    chan struct{}
	stoppedChan chan struct{}

	stats runStats
}

// NewWatchScheduler creates a scheduler watching every directory of config.Roots recursively
func NewWatchScheduler(config Config, runner Runner) (*WatchScheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	if len(config.Roots) == 0 {
		return nil, fmt.Errorf("at least one root is required")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	s := &WatchScheduler{
		config:      config,
		runner:      runner,
		watcher:     watcher,
		log:         logger.Get().With("component", "scheduler", "mode", ModeWatch),
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}

	for root := range config.Roots {
		if err := s.addRecursive(root); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	return s, nil
}

// addRecursive adds the directory and all its subdirectories to the watcher
func (s *WatchScheduler) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish while walking
			if os.IsNotExist(err) && path != dir {
				return nil
			}
			return err
		}

		if d.IsDir() {
			if err := s.watcher.Add(path); err != nil {
				// Ignore permission errors for directories we can't access
				if os.IsPermission(err) {
					return filepath.SkipDir
				}
				return err
			}
		}

		return nil
	})
}

// Start begins the event loop
func (s *WatchScheduler) Start(ctx context.Context) error {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	if s.stats.running {
		return fmt.Errorf("scheduler is already running")
	}

	if s.stopped {
		return fmt.Errorf("scheduler cannot be restarted after stop")
	}

	s.stats.running = true

	go s.run(ctx)

	return nil
}

// run is the main event loop
func (s *WatchScheduler) run(ctx context.Context) {
	defer s.closeOnce.Do(func() {
		s.watcher.Close()
		s.stats.mu.Lock()
		s.stopped = true
		s.stats.running = false
		s.stats.mu.Unlock()
		close(s.stoppedChan)
	})

	if s.config.RunOnStart {
		s.execute(ctx, s.allTargets())
	}

	// debounce is nil while no run is pending
	var debounce <-chan time.Time
	var timer *time.Timer
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			targets := s.handleEvent(event)
			if len(targets) == 0 {
				continue
			}
			for _, t := range targets {
				pending[t] = true
			}
			if timer == nil {
				timer = time.NewTimer(s.config.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.config.Debounce)
			}
			debounce = timer.C
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "error", err)
		case <-debounce:
			debounce = nil
			targets := make([]string, 0, len(pending))
			for t := range pending {
				targets = append(targets, t)
			}
			sort.Strings(targets)
			pending = make(map[string]bool)
			s.execute(ctx, targets)
		}
	}
}

// handleEvent returns the targets affected by an event
func (s *WatchScheduler) handleEvent(event fsnotify.Event) []string {
	// Chmod alone never changes a match
	if event.Op == fsnotify.Chmod {
		return nil
	}

	// New directories are watched too
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.addRecursive(event.Name); err != nil {
				s.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	var targets []string
	for root, names := range s.config.Roots {
		if within(root, event.Name) {
			targets = append(targets, names...)
		}
	}

	s.log.Debug("filesystem event", "path", event.Name, "op", event.Op.String(), "targets", len(targets))
	return targets
}

func (s *WatchScheduler) execute(ctx context.Context, targets []string) {
	s.stats.begin(time.Time{})
	s.stats.finish(runTargets(ctx, s.runner, targets))
}

// allTargets lists every target of every root once, sorted
func (s *WatchScheduler) allTargets() []string {
	seen := make(map[string]bool)
	var targets []string
	for _, names := range s.config.Roots {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				targets = append(targets, n)
			}
		}
	}
	sort.Strings(targets)
	return targets
}

// Stop gracefully stops the scheduler
func (s *WatchScheduler) Stop() error {
	s.stats.mu.RLock()
	if !s.stats.running {
		s.stats.mu.RUnlock()
		return fmt.Errorf("scheduler is not running")
	}
	s.stats.mu.RUnlock()

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	<-s.stoppedChan

	return nil
}

// Close releases the watcher of a scheduler that was never started
func (s *WatchScheduler) Close() error {
	s.stats.mu.RLock()
	running := s.stats.running
	s.stats.mu.RUnlock()
	if running {
		return s.Stop()
	}
	return s.watcher.Close()
}

// Done is closed once the event loop has exited
func (s *WatchScheduler) Done() <-chan struct{} {
	return s.stoppedChan
}

// Status returns the current scheduler status
func (s *WatchScheduler) Status() *Status {
	return s.stats.status()
}

// within reports whether path is root or below it
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
