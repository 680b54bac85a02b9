// Package filter builds path predicates for match.Filter from glob lists.
package filter

import (
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Ning0612/fmatch/internal/domain"
)

// Func reports whether a root-relative, slash-separated path is kept
type Func func(rel string) bool

// Exclude returns a filter dropping every path that matches one of patterns,
// either on its full relative path or on its base name.
// An empty list keeps everything.
func Exclude(patterns []string) (Func, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: exclude %q", domain.ErrBadPattern, p)
		}
	}

	return func(rel string) bool {
		return !matchAny(rel, patterns)
	}, nil
}

// Include returns a filter keeping only paths that match one of patterns.
// An empty list keeps everything.
func Include(patterns []string) (Func, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: include %q", domain.ErrBadPattern, p)
		}
	}

	return func(rel string) bool {
		if len(patterns) == 0 {
			return true
		}
		return matchAny(rel, patterns)
	}, nil
}

// Chain keeps a path only when every non-nil filter keeps it.
// Returns nil when no filter is given so callers can skip filtering.
func Chain(filters ...Func) Func {
	var active []Func
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}

	return func(rel string) bool {
		for _, f := range active {
			if !f(rel) {
				return false
			}
		}
		return true
	}
}

func matchAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		// Patterns were validated up front, errors cannot occur
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
