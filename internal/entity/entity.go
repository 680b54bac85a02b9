// Package entity provides the path-addressed handles a match yields: File and Folder.
package entity

import (
	"path"
	"path/filepath"

	"github.com/Ning0612/fmatch/internal/adapter"
	"github.com/Ning0612/fmatch/internal/domain"
)

// Entity is a handle on a matched file or folder.
// The variant is fixed at construction by a classification query and reported by Kind.
type Entity interface {
	// Path is the full path: match root joined with Rel
	Path() string
	// Rel is the slash-separated path relative to the match root
	Rel() string
	Kind() domain.EntryKind
	SyncMode() bool

	Exists() bool
	IsReal() bool
	IsFolder() bool
	IsDir() bool
	IsDirectory() bool
	IsFile() bool

	Copy(dst string) error
	Move(dst string) error
	Delete() error
	Remove() error
}

// base carries the state shared by both variants. Immutable after construction.
type base struct {
	fs       adapter.FileSystem
	path     string
	rel      string
	kind     domain.EntryKind
	syncMode bool
}

func newBase(fs adapter.FileSystem, root, rel string, kind domain.EntryKind, syncMode bool) base {
	rel = path.Clean(filepath.ToSlash(rel))
	return base{
		fs:       fs,
		path:     filepath.Join(root, filepath.FromSlash(rel)),
		rel:      rel,
		kind:     kind,
		syncMode: syncMode,
	}
}

func (b *base) Path() string           { return b.path }
func (b *base) Rel() string            { return b.rel }
func (b *base) Kind() domain.EntryKind { return b.kind }
func (b *base) SyncMode() bool         { return b.syncMode }

// Exists reports whether the path exists right now.
// Can be false for an entity whose path was removed after matching.
func (b *base) Exists() bool { return b.fs.Exists(b.path) }

// IsReal is an alias of Exists
func (b *base) IsReal() bool { return b.Exists() }

// IsFolder reports whether the path is a directory right now
func (b *base) IsFolder() bool { return b.fs.IsFolder(b.path) }

// IsDir is an alias of IsFolder
func (b *base) IsDir() bool { return b.IsFolder() }

// IsDirectory is an alias of IsFolder
func (b *base) IsDirectory() bool { return b.IsFolder() }

// IsFile reports whether the path is a regular file right now
func (b *base) IsFile() bool { return b.fs.IsFile(b.path) }

// Copy is reserved for filesystem mutation and has no effect.
func (b *base) Copy(dst string) error { return domain.ErrNotImplemented }

// Move is reserved for filesystem mutation and has no effect.
func (b *base) Move(dst string) error { return domain.ErrNotImplemented }

// Delete is reserved for filesystem mutation and has no effect.
func (b *base) Delete() error { return domain.ErrNotImplemented }

// Remove is an alias of Delete
func (b *base) Remove() error { return b.Delete() }

// init is the construction hook variants may extend; nothing to do in the base
func (b *base) init() {}

// Classify queries fs for the live type of rel under root and builds the matching variant.
// Anything that is not a regular file at that moment becomes a Folder.
func Classify(fs adapter.FileSystem, root, rel string, syncMode bool) Entity {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if fs.IsFile(full) {
		return NewFile(fs, root, rel, syncMode)
	}
	return NewFolder(fs, root, rel, syncMode)
}
