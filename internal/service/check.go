package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ning0612/fmatch/internal/config"
	"github.com/Ning0612/fmatch/internal/core/diff"
	"github.com/Ning0612/fmatch/internal/core/match"
	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/logger"
	"github.com/Ning0612/fmatch/internal/metrics"
	"github.com/Ning0612/fmatch/internal/state"
)

// CheckResult is the outcome of fingerprinting one target
type CheckResult struct {
	Target     string          `json:"target" yaml:"target"`
	Hash       string          `json:"hash" yaml:"hash"`
	Previous   string          `json:"previous,omitempty" yaml:"previous,omitempty"`
	Changed    bool            `json:"changed" yaml:"changed"`
	FileCount  int             `json:"file_count" yaml:"file_count"`
	TotalBytes int64           `json:"total_bytes" yaml:"total_bytes"`
	CheckedAt  time.Time       `json:"checked_at" yaml:"checked_at"`
	Changes    *diff.ChangeSet `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// CheckService fingerprints configured targets, compares against the recorded
// history and records the new fingerprint.
// Matches and snapshots are kept between runs so a watch session can report what changed.
type CheckService struct {
	config   *config.Config
	stateMgr *state.Manager
	metrics  *metrics.Recorder
	log      logger.Logger
	session  string

	// Keep is the number of history entries kept per target, 0 keeps all
	Keep int

	mu        sync.Mutex
	matches   map[string]*match.Match
	snapshots map[string][]domain.FileInfo
}

// NewCheckService creates a check service recording into stateMgr.
// session tags every record, empty for one-shot checks.
func NewCheckService(cfg *config.Config, stateMgr *state.Manager, rec *metrics.Recorder, log logger.Logger, session string) (*CheckService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if stateMgr == nil {
		return nil, fmt.Errorf("state manager cannot be nil")
	}
	if log == nil {
		log = logger.Get()
	}

	return &CheckService{
		config:    cfg,
		stateMgr:  stateMgr,
		metrics:   rec,
		log:       log.With("component", "check"),
		session:   session,
		matches:   make(map[string]*match.Match),
		snapshots: make(map[string][]domain.FileInfo),
	}, nil
}

// match returns the long-lived match of a target, creating it on first use
func (s *CheckService) match(ctx context.Context, t *domain.Target) (*match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.matches[t.Name]; ok {
		return m, nil
	}

	filter, err := config.TargetFilter(t)
	if err != nil {
		return nil, err
	}
	m, err := match.New(ctx, t.Pattern, match.Options{
		Cwd:     t.Cwd,
		Filter:  filter,
		Logger:  s.log,
		Metrics: s.metrics,
	})
	if err != nil {
		return nil, err
	}

	s.matches[t.Name] = m
	return m, nil
}

// Check updates the target's match, fingerprints it and records the result.
// Changed is false on the first check of a target.
func (s *CheckService) Check(ctx context.Context, name string) (*CheckResult, error) {
	target, err := s.config.GetTarget(name)
	if err != nil {
		return nil, err
	}

	m, err := s.match(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}
	if err := m.Update(ctx); err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}

	hash, err := m.Fingerprint(target.HashOptions)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}
	snapshot, err := m.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}

	res := &CheckResult{
		Target:    name,
		Hash:      hash,
		FileCount: len(snapshot),
		CheckedAt: time.Now(),
	}
	for _, f := range snapshot {
		res.TotalBytes += f.Size
	}

	prev, err := s.stateMgr.Last(name)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		res.Previous = prev.Hash
		res.Changed = prev.Hash != hash
	}

	s.mu.Lock()
	older, seen := s.snapshots[name]
	s.snapshots[name] = snapshot
	s.mu.Unlock()
	if seen {
		if changes := diff.Snapshots(older, snapshot); !changes.Empty() {
			res.Changes = &changes
		}
	}

	_, err = s.stateMgr.Save(state.Record{
		Target:     name,
		Session:    s.session,
		Hash:       hash,
		FileCount:  res.FileCount,
		TotalBytes: res.TotalBytes,
		CheckedAt:  res.CheckedAt,
	})
	if err != nil {
		return nil, err
	}

	if s.Keep > 0 {
		if _, err := s.stateMgr.Prune(name, s.Keep); err != nil {
			s.log.Warn("failed to prune history", "target", name, "error", err)
		}
	}

	return res, nil
}

// CheckAll checks every named target and returns the results in order.
// It attempts all targets and aggregates errors instead of failing fast.
func (s *CheckService) CheckAll(ctx context.Context, names []string) ([]*CheckResult, error) {
	results := make([]*CheckResult, 0, len(names))
	var errs []error
	for _, name := range names {
		res, err := s.Check(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Run implements scheduler.Runner: check one target and log the outcome
func (s *CheckService) Run(ctx context.Context, name string) error {
	res, err := s.Check(ctx, name)
	if errors.Is(err, domain.ErrUpdateInProgress) {
		s.log.Debug("update already running, skipped", "target", name)
		return nil
	}
	if err != nil {
		s.log.Error("check failed", "target", name, "error", err)
		return err
	}

	if !res.Changed {
		s.log.Debug("target unchanged", "target", name, "hash", res.Hash, "files", res.FileCount)
		return nil
	}

	var added, removed, modified int
	if res.Changes != nil {
		added, removed, modified = len(res.Changes.Added), len(res.Changes.Removed), len(res.Changes.Modified)
	}
	s.metrics.RecordChanges(added, removed, modified)
	s.log.Info("target changed",
		"target", name,
		"hash", res.Hash,
		"previous", res.Previous,
		"files", res.FileCount,
		"added", added,
		"removed", removed,
		"modified", modified,
	)
	return nil
}
