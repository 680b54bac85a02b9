package scheduler

import (
	"context"
	"sync"
	"time"
)

// Scheduler defines the interface for check schedulers
type Scheduler interface {
	// Start begins the scheduling loop
	Start(ctx context.Context) error

	// Stop gracefully stops the scheduler
	Stop() error

	// Status returns the current scheduler status
	Status() *Status
}

// Status represents the current state of a scheduler
type Status struct {
	Running        bool
	LastRunTime    time.Time
	NextRunTime    time.Time
	TotalRuns      int
	SuccessfulRuns int
	FailedRuns     int
	LastError      string
}

// Config contains scheduler configuration
type Config struct {
	// Mode specifies the scheduling mode ("interval" or "watch")
	Mode string

	// Interval specifies the duration between runs (interval mode)
	Interval time.Duration

	// Debounce is the quiet period after the last filesystem event before a run (watch mode)
	Debounce time.Duration

	// Targets specifies which targets to run
	Targets []string

	// Roots maps a directory to the targets resolved against it (watch mode)
	Roots map[string][]string

	// RunOnStart runs every target once as soon as the scheduler starts
	RunOnStart bool
}

const (
	ModeInterval = "interval"
	ModeWatch    = "watch"
)

// DefaultDebounce is used by the watch scheduler when Config.Debounce is zero
const DefaultDebounce = 500 * time.Millisecond

// Runner is the interface that schedulers use to execute a check
type Runner interface {
	// Run checks the specified target once
	Run(ctx context.Context, target string) error
}

// RunnerFunc adapts a function to Runner
type RunnerFunc func(ctx context.Context, target string) error

// Run calls f(ctx, target)
func (f RunnerFunc) Run(ctx context.Context, target string) error {
	return f(ctx, target)
}

// runStats 排程統計，兩種排程器共用
type runStats struct {
	mu             sync.RWMutex
	running        bool
	lastRunTime    time.Time
	nextRunTime    time.Time
	totalRuns      int
	successfulRuns int
	failedRuns     int
	lastError      string
}

// begin marks the start of one run
func (s *runStats) begin(next time.Time) {
	s.mu.Lock()
	s.lastRunTime = time.Now()
	s.totalRuns++
	s.nextRunTime = next
	s.mu.Unlock()
}

// finish records the outcome of one run
func (s *runStats) finish(err error) {
	s.mu.Lock()
	if err != nil {
		s.failedRuns++
		s.lastError = err.Error()
	} else {
		s.successfulRuns++
		s.lastError = ""
	}
	s.mu.Unlock()
}

func (s *runStats) status() *Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Status{
		Running:        s.running,
		LastRunTime:    s.lastRunTime,
		NextRunTime:    s.nextRunTime,
		TotalRuns:      s.totalRuns,
		SuccessfulRuns: s.successfulRuns,
		FailedRuns:     s.failedRuns,
		LastError:      s.lastError,
	}
}

// runTargets runs every target and returns the last error
func runTargets(ctx context.Context, runner Runner, targets []string) error {
	var lastErr error
	for _, target := range targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := runner.Run(ctx, target); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
