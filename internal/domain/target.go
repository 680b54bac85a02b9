package domain

import "github.com/bmatcuk/doublestar/v4"

// HashOptions selects which mutable metadata enters a file list fingerprint.
// The path of every file is always part of it.
type HashOptions struct {
	IncludeLastModified bool `mapstructure:"include_last_modified" json:"include_last_modified" yaml:"include_last_modified"`
	IncludeSize         bool `mapstructure:"include_size" json:"include_size" yaml:"include_size"`
}

// Target is a named, configured match: a pattern resolved against a root directory
type Target struct {
	// Name is the unique identifier
	Name string `mapstructure:"name"`

	// Pattern is the glob pattern, doublestar syntax
	Pattern string `mapstructure:"pattern"`

	// Cwd is the root directory the pattern is resolved against
	Cwd string `mapstructure:"cwd"`

	// Exclude glob patterns dropped from the match after resolution
	Exclude []string `mapstructure:"exclude"`

	// Hash options used by check and watch
	HashOptions `mapstructure:",squash"`
}

// Validate checks if the target is properly configured
func (t Target) Validate() error {
	if t.Name == "" {
		return ErrConfigInvalid
	}
	if t.Pattern == "" || !doublestar.ValidatePattern(t.Pattern) {
		return ErrBadPattern
	}
	for _, p := range t.Exclude {
		if !doublestar.ValidatePattern(p) {
			return ErrBadPattern
		}
	}
	return nil
}
