package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ning0612/fmatch/internal/core/filter"
	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/logger"
)

// Config represents the complete configuration for fmatch
type Config struct {
	// Log configures the global logger
	Log LogConfig `mapstructure:"log"`

	// StateDir holds the fingerprint database and watcher locks
	StateDir string `mapstructure:"state_dir"`

	// Targets are the named matches check and watch operate on
	Targets []domain.Target `mapstructure:"targets"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggerConfig converts the file settings into a logger.Config
func (l LogConfig) LoggerConfig() logger.Config {
	cfg := logger.Config{
		Level:  logger.ParseLevel(l.Level),
		Format: logger.ParseFormat(l.Format),
	}
	if l.File != "" {
		cfg.File = logger.FileConfig{
			Path:       ExpandPath(l.File),
			MaxSizeMB:  l.MaxSizeMB,
			MaxAgeDays: l.MaxAgeDays,
			MaxBackups: l.MaxBackups,
			Compress:   l.Compress,
		}
	}
	return cfg
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	if c.StateDir == "" {
		return fmt.Errorf("%w: state_dir cannot be empty", domain.ErrConfigInvalid)
	}

	names := make(map[string]bool)
	for _, t := range c.Targets {
		if t.Name == "" {
			return fmt.Errorf("%w: target name cannot be empty", domain.ErrConfigInvalid)
		}
		if names[t.Name] {
			return fmt.Errorf("%w: duplicate target name: %s", domain.ErrConfigInvalid, t.Name)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: target %s: %v", domain.ErrConfigInvalid, t.Name, err)
		}
		names[t.Name] = true
	}

	return nil
}

// GetTarget returns a target by name
func (c *Config) GetTarget(name string) (*domain.Target, error) {
	for i := range c.Targets {
		if c.Targets[i].Name == name {
			return &c.Targets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotFound, name)
}

// TargetNames returns the names of all configured targets in config order
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		names = append(names, t.Name)
	}
	return names
}

// TargetFilter builds the path filter for a target's exclude list, nil when it has none
func TargetFilter(t *domain.Target) (func(string) bool, error) {
	if len(t.Exclude) == 0 {
		return nil, nil
	}
	f, err := filter.Exclude(t.Exclude)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// LockPath returns the watcher lock file for a target
func (c *Config) LockPath(target string) string {
	return filepath.Join(c.StateDir, target+".lock")
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	// Expand ~ to home directory
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
				path = filepath.Join(home, path[2:])
			} else if len(path) == 1 {
				path = home
			}
		}
	}
	// Expand environment variables
	path = os.ExpandEnv(path)
	return filepath.Clean(path)
}
