package adapter

import (
	"io"

	"github.com/Ning0612/fmatch/internal/domain"
)

// FileSystem defines the filesystem queries the matcher and its entities consume.
// All queries hit the live filesystem at call time, nothing is cached.
// Paths are full paths (the match root already joined in).
type FileSystem interface {
	// Exists reports whether path exists
	// I/O errors other than not-exist are reported as false
	Exists(path string) bool

	// IsFile reports whether path is an existing regular file
	IsFile(path string) bool

	// IsFolder reports whether path is an existing directory
	IsFolder(path string) bool

	// Stat returns size and modification time for a single path
	// Returns domain.ErrNotFound if path doesn't exist
	Stat(path string) (domain.FileInfo, error)

	// Open opens a file for reading
	// Caller is responsible for closing the reader
	// Returns domain.ErrNotFile if path is a directory
	Open(path string) (io.ReadCloser, error)
}

// Globber resolves a glob pattern against a root directory
type Globber interface {
	// Glob returns the slash-separated paths relative to root that match pattern,
	// in the order the resolver walks them.
	// Returns an error wrapping domain.ErrBadPattern for malformed patterns and
	// domain.ErrNotFound / domain.ErrNotDirectory for an unusable root.
	Glob(pattern, root string) ([]string, error)
}
