package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/logger"
)

const sampleConfig = `
log:
  level: debug
  format: json
state_dir: /var/lib/fmatch
targets:
  - name: docs
    pattern: "**/*.md"
    cwd: /srv/notes
    exclude: ["drafts/**", "*.tmp"]
    include_last_modified: true
    include_size: true
  - name: logs
    pattern: "*.log"
`

func TestLoadFromString(t *testing.T) {
	cfg, err := LoadFromString(sampleConfig)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if cfg.StateDir != "/var/lib/fmatch" {
		t.Errorf("StateDir = %s", cfg.StateDir)
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("Targets len = %d, want 2", len(cfg.Targets))
	}

	docs, err := cfg.GetTarget("docs")
	if err != nil {
		t.Fatalf("GetTarget() error = %v", err)
	}
	if docs.Pattern != "**/*.md" || docs.Cwd != "/srv/notes" {
		t.Errorf("unexpected target %+v", docs)
	}
	if !docs.IncludeLastModified || !docs.IncludeSize {
		t.Errorf("hash options not decoded: %+v", docs.HashOptions)
	}
	if len(docs.Exclude) != 2 {
		t.Errorf("Exclude = %v", docs.Exclude)
	}

	logs, _ := cfg.GetTarget("logs")
	if logs.IncludeLastModified || logs.IncludeSize {
		t.Errorf("hash options should default to false: %+v", logs.HashOptions)
	}

	lc := cfg.Log.LoggerConfig()
	if lc.Level != logger.LevelDebug || lc.Format != logger.FormatJSON {
		t.Errorf("unexpected logger config %+v", lc)
	}
	if lc.File.Path != "" {
		t.Errorf("file logging should be off, got %s", lc.File.Path)
	}
}

func TestLoadFromString_Defaults(t *testing.T) {
	cfg, err := LoadFromString("targets: []")
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if cfg.Log.Level != "info" || cfg.Log.MaxSizeMB != 10 || cfg.Log.MaxBackups != 3 {
		t.Errorf("log defaults not applied: %+v", cfg.Log)
	}
	if cfg.StateDir != ExpandPath("~/.fmatch") {
		t.Errorf("StateDir = %s", cfg.StateDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "duplicate target",
			yaml:    "targets: [{name: a, pattern: '*'}, {name: a, pattern: '*.go'}]",
			wantErr: domain.ErrConfigInvalid,
		},
		{
			name:    "empty name",
			yaml:    "targets: [{pattern: '*'}]",
			wantErr: domain.ErrConfigInvalid,
		},
		{
			name:    "empty pattern",
			yaml:    "targets: [{name: a}]",
			wantErr: domain.ErrConfigInvalid,
		},
		{
			name:    "bad exclude",
			yaml:    "targets: [{name: a, pattern: '*', exclude: ['[']}]",
			wantErr: domain.ErrConfigInvalid,
		},
		{
			name: "valid",
			yaml: "targets: [{name: a, pattern: '**/*.go', exclude: ['vendor/**']}]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromString(tt.yaml)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetTarget_NotFound(t *testing.T) {
	cfg, err := LoadFromString(sampleConfig)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	if _, err := cfg.GetTarget("missing"); !errors.Is(err, domain.ErrTargetNotFound) {
		t.Errorf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestTargetNames(t *testing.T) {
	cfg, err := LoadFromString(sampleConfig)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	names := cfg.TargetNames()
	if len(names) != 2 || names[0] != "docs" || names[1] != "logs" {
		t.Errorf("TargetNames() = %v", names)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Targets) != 2 {
		t.Errorf("Targets len = %d", len(cfg.Targets))
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FMATCH_STATE_DIR", filepath.Join(dir, "state"))
	t.Setenv("FMATCH_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StateDir != filepath.Join(dir, "state") {
		t.Errorf("StateDir = %s, want env override", cfg.StateDir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, domain.ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("targets: [unterminated"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, domain.ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if len(cfg.Targets) != 0 {
		t.Errorf("Default() has targets: %v", cfg.Targets)
	}
	if cfg.StateDir == "" {
		t.Error("Default() has empty StateDir")
	}
}

func TestTargetFilter(t *testing.T) {
	cfg, err := LoadFromString(sampleConfig)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	docs, _ := cfg.GetTarget("docs")
	f, err := TargetFilter(docs)
	if err != nil {
		t.Fatalf("TargetFilter() error = %v", err)
	}
	if f("drafts/idea.md") || f("note.tmp") {
		t.Error("excluded paths kept")
	}
	if !f("guide/intro.md") {
		t.Error("regular path dropped")
	}

	logs, _ := cfg.GetTarget("logs")
	if f, _ := TargetFilter(logs); f != nil {
		t.Error("expected nil filter without excludes")
	}
}

func TestLockPath(t *testing.T) {
	cfg := &Config{StateDir: "/state"}
	if cfg.LockPath("docs") != filepath.Join("/state", "docs.lock") {
		t.Errorf("LockPath() = %s", cfg.LockPath("docs"))
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	t.Setenv("FMATCH_TEST_DIR", "/opt/data")

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/notes", filepath.Join(home, "notes")},
		{"$FMATCH_TEST_DIR/x", "/opt/data/x"},
		{"/a/./b/", "/a/b"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
