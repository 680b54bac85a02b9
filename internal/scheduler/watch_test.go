package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ning0612/fmatch/internal/testutil"
)

func newWatch(t *testing.T, roots map[string][]string, runner Runner) *WatchScheduler {
	t.Helper()

	s, err := NewWatchScheduler(Config{
		Mode:     ModeWatch,
		Debounce: 50 * time.Millisecond,
		Roots:    roots,
	}, runner)
	if err != nil {
		t.Fatalf("Failed to create watch scheduler: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewWatchScheduler_InvalidConfig(t *testing.T) {
	if _, err := NewWatchScheduler(Config{Roots: map[string][]string{t.TempDir(): {"a"}}}, nil); err == nil {
		t.Error("Expected error for nil runner, got nil")
	}
	if _, err := NewWatchScheduler(Config{}, &mockRunner{}); err == nil {
		t.Error("Expected error for missing roots, got nil")
	}
	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := NewWatchScheduler(Config{Roots: map[string][]string{missing: {"a"}}}, &mockRunner{}); err == nil {
		t.Error("Expected error for missing root, got nil")
	}
}

func TestWatchScheduler_RunsAfterChange(t *testing.T) {
	dir := t.TempDir()
	runner := &mockRunner{}
	s := newWatch(t, map[string][]string{dir: {"docs"}}, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}

	// A burst of writes results in a single run
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "note.md")
		if err := os.WriteFile(path, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	testutil.AssertEventually(t, 2*time.Second, func() bool {
		return len(runner.Calls()) >= 1
	}, "expected a run after file changes")

	time.Sleep(150 * time.Millisecond)
	if calls := runner.Calls(); len(calls) != 1 || calls[0] != "docs" {
		t.Errorf("calls = %v, want a single docs run", calls)
	}

	if st := s.Status(); st.TotalRuns != 1 || st.SuccessfulRuns != 1 {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestWatchScheduler_WatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	runner := &mockRunner{}
	s := newWatch(t, map[string][]string{dir: {"docs"}}, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	testutil.AssertEventually(t, 2*time.Second, func() bool {
		return len(runner.Calls()) == 1
	}, "expected a run after mkdir")

	if err := os.WriteFile(filepath.Join(sub, "deep.md"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	testutil.AssertEventually(t, 2*time.Second, func() bool {
		return len(runner.Calls()) == 2
	}, "expected a run after writing inside the new directory")
}

func TestWatchScheduler_RoutesByRoot(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	runner := &mockRunner{}
	s := newWatch(t, map[string][]string{a: {"alpha"}, b: {"beta", "gamma"}}, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}

	if err := os.WriteFile(filepath.Join(b, "x.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	testutil.AssertEventually(t, 2*time.Second, func() bool {
		return len(runner.Calls()) == 2
	}, "expected runs for both targets of root b")

	calls := runner.Calls()
	if calls[0] != "beta" || calls[1] != "gamma" {
		t.Errorf("calls = %v, want [beta gamma]", calls)
	}
}

func TestWatchScheduler_RunOnStart(t *testing.T) {
	runner := &mockRunner{}
	s, err := NewWatchScheduler(Config{
		Roots:      map[string][]string{t.TempDir(): {"b", "a"}, t.TempDir(): {"a"}},
		RunOnStart: true,
	}, runner)
	if err != nil {
		t.Fatalf("Failed to create watch scheduler: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}
	defer s.Stop()

	testutil.AssertEventually(t, time.Second, func() bool {
		return len(runner.Calls()) == 2
	}, "expected one run per distinct target")

	calls := runner.Calls()
	if calls[0] != "a" || calls[1] != "b" {
		t.Errorf("calls = %v, want [a b]", calls)
	}
}

func TestWatchScheduler_Lifecycle(t *testing.T) {
	s := newWatch(t, map[string][]string{t.TempDir(): {"docs"}}, &mockRunner{})

	if err := s.Stop(); err == nil {
		t.Error("Expected error when stopping non-running scheduler")
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("Expected error when starting already running scheduler")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Failed to stop scheduler: %v", err)
	}
	if s.Status().Running {
		t.Error("Scheduler should not be running after stop")
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("Expected error when restarting a stopped scheduler")
	}
}

func TestWithin(t *testing.T) {
	root := filepath.FromSlash("/srv/notes")
	tests := []struct {
		path string
		want bool
	}{
		{"/srv/notes", true},
		{"/srv/notes/a.md", true},
		{"/srv/notes/sub/b.md", true},
		{"/srv/notes-old/a.md", false},
		{"/srv", false},
		{"/srv/..notes", false},
	}
	for _, tt := range tests {
		if got := within(root, filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("within(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
