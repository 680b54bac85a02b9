// Package match resolves a glob pattern against a root directory and exposes
// the result as typed entities and as a file list fingerprint.
package match

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/Ning0612/fmatch/internal/adapter"
	"github.com/Ning0612/fmatch/internal/adapter/local"
	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/logger"
	"github.com/Ning0612/fmatch/internal/metrics"
)

// Filter keeps a root-relative path when it returns true.
// It is called once per resolved path on every update and must not have side effects.
type Filter = func(path string) bool

// Options configures a Match
type Options struct {
	// Cwd is the root directory the pattern is resolved against.
	// Empty means the process working directory.
	Cwd string

	// Filter is applied to every resolved path, nil keeps all
	Filter Filter

	// SyncMode resolves inline in the caller's goroutine and makes New resolve before returning
	SyncMode bool

	// FileSystem and Globber default to the local adapter on the OS filesystem
	FileSystem adapter.FileSystem
	Globber    adapter.Globber

	// Logger defaults to logger.Get()
	Logger logger.Logger

	// Metrics is optional
	Metrics *metrics.Recorder
}

// Match holds a glob pattern, its root and the paths of its last successful update
type Match struct {
	pattern  string
	cwd      string
	filter   Filter
	syncMode bool

	fs      adapter.FileSystem
	globber adapter.Globber
	log     logger.Logger
	metrics *metrics.Recorder

	// paths is nil until the first successful update, then replaced wholesale
	paths    atomic.Pointer[[]string]
	updating atomic.Bool
}

// New creates a Match. In sync mode the first update runs before New returns
// and its error is returned; otherwise paths stay uninitialized until Update.
func New(ctx context.Context, pattern string, opts Options) (*Match, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", domain.ErrBadPattern)
	}

	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cwd = wd
	}
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cwd: %w", err)
	}

	m := &Match{
		pattern:  pattern,
		cwd:      cwd,
		filter:   opts.Filter,
		syncMode: opts.SyncMode,
		fs:       opts.FileSystem,
		globber:  opts.Globber,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}

	if m.fs == nil || m.globber == nil {
		osAdapter := local.NewOS()
		if m.fs == nil {
			m.fs = osAdapter
		}
		if m.globber == nil {
			m.globber = osAdapter
		}
	}
	if m.log == nil {
		m.log = logger.Get()
	}
	m.log = m.log.With("component", "match", "pattern", pattern)

	if m.syncMode {
		if err := m.Update(ctx); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Sync creates a synchronous Match, resolved before it is returned
func Sync(ctx context.Context, pattern string, opts Options) (*Match, error) {
	opts.SyncMode = true
	return New(ctx, pattern, opts)
}

// Async creates an asynchronous Match and waits for its first update
func Async(ctx context.Context, pattern string, opts Options) (*Match, error) {
	opts.SyncMode = false
	m, err := New(ctx, pattern, opts)
	if err != nil {
		return nil, err
	}
	if err := m.Update(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Pattern returns the glob pattern
func (m *Match) Pattern() string { return m.pattern }

// Cwd returns the absolute root directory
func (m *Match) Cwd() string { return m.cwd }

// Filter returns the path filter, nil when none was given
func (m *Match) Filter() Filter { return m.filter }

// SyncMode reports whether updates run inline
func (m *Match) SyncMode() bool { return m.syncMode }

// IsUpdating reports whether an update is in flight
func (m *Match) IsUpdating() bool { return m.updating.Load() }

// Paths returns a copy of the paths of the last successful update,
// or nil before the first one.
func (m *Match) Paths() []string {
	p := m.paths.Load()
	if p == nil {
		return nil
	}
	return slices.Clone(*p)
}

// Update resolves the pattern again and replaces the stored paths.
//
// In sync mode resolution runs in the caller's goroutine. Otherwise Update
// waits on UpdateAsync; if ctx ends first Update returns ctx.Err() while the
// resolution keeps running and the match stays busy until it finishes.
// Returns domain.ErrUpdateInProgress if another update is in flight and a
// *ResolutionError if the resolver fails, in which case paths are unchanged.
func (m *Match) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !m.syncMode {
		select {
		case err := <-m.UpdateAsync():
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if !m.updating.CompareAndSwap(false, true) {
		return domain.ErrUpdateInProgress
	}
	defer m.updating.Store(false)

	return m.resolve()
}

// UpdateAsync starts an update in a new goroutine and returns immediately.
// The channel receives exactly one value: nil, the resolution error, or
// domain.ErrUpdateInProgress right away when an update is already in flight.
// The busy flag is cleared before the result is delivered.
func (m *Match) UpdateAsync() <-chan error {
	done := make(chan error, 1)

	if !m.updating.CompareAndSwap(false, true) {
		done <- domain.ErrUpdateInProgress
		return done
	}

	go func() {
		err := m.resolve()
		m.updating.Store(false)
		done <- err
	}()

	return done
}

// resolve runs the globber and filter; callers hold the busy flag
func (m *Match) resolve() error {
	start := time.Now()

	raw, err := m.globber.Glob(m.pattern, m.cwd)
	if err != nil {
		rerr := &ResolutionError{Pattern: m.pattern, Cwd: m.cwd, Err: err}
		m.metrics.RecordUpdate(m.pattern, 0, time.Since(start), rerr)
		m.log.Debug("update failed", "cwd", m.cwd, "error", err)
		return rerr
	}

	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		if m.filter == nil || m.filter(p) {
			paths = append(paths, p)
		}
	}

	m.paths.Store(&paths)

	elapsed := time.Since(start)
	m.metrics.RecordUpdate(m.pattern, len(paths), elapsed, nil)
	m.log.Debug("match updated",
		"cwd", m.cwd,
		"resolved", len(raw),
		"kept", len(paths),
		"duration", elapsed,
	)

	return nil
}

// checkPaths returns the current snapshot or domain.ErrUninitialized
func (m *Match) checkPaths() ([]string, error) {
	p := m.paths.Load()
	if p == nil {
		return nil, fmt.Errorf("%w (pattern %q)", domain.ErrUninitialized, m.pattern)
	}
	return *p, nil
}

// fullPath joins a stored relative path with the root
func (m *Match) fullPath(rel string) string {
	return filepath.Join(m.cwd, filepath.FromSlash(rel))
}
