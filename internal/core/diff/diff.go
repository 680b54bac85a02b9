package diff

import "github.com/Ning0612/fmatch/internal/domain"

// DiffResult represents the comparison result between two snapshots of one path
type DiffResult int

const (
	// FilesIdentical indicates size and mtime are unchanged
	FilesIdentical DiffResult = iota
	// FileModified indicates the file exists in both snapshots but differs
	FileModified
	// FileAdded indicates the file only exists in the newer snapshot
	FileAdded
	// FileRemoved indicates the file only exists in the older snapshot
	FileRemoved
)

// String returns the string representation of the result
func (r DiffResult) String() string {
	switch r {
	case FilesIdentical:
		return "identical"
	case FileModified:
		return "modified"
	case FileAdded:
		return "added"
	case FileRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Comparer compares two observations of the same path
type Comparer interface {
	// Compare compares the older and newer file info, either may be nil
	Compare(older, newer *domain.FileInfo) DiffResult
}

// DefaultComparer uses mtime + size comparison
type DefaultComparer struct{}

// NewDefaultComparer creates a new DefaultComparer
func NewDefaultComparer() *DefaultComparer {
	return &DefaultComparer{}
}

// Compare implements the Comparer interface
func (c *DefaultComparer) Compare(older, newer *domain.FileInfo) DiffResult {
	switch {
	case older == nil && newer == nil:
		return FilesIdentical
	case older == nil:
		return FileAdded
	case newer == nil:
		return FileRemoved
	}

	if older.Kind != newer.Kind {
		return FileModified
	}

	// Folders carry no comparable content
	if older.IsDir() {
		return FilesIdentical
	}

	if older.Size != newer.Size {
		return FileModified
	}

	// Use ModTime.Equal() to handle platform-specific precision
	if !older.ModTime.Equal(newer.ModTime) {
		return FileModified
	}

	return FilesIdentical
}

// ChangeSet lists the paths that differ between two snapshots
type ChangeSet struct {
	Added    []string `json:"added,omitempty" yaml:"added,omitempty"`
	Removed  []string `json:"removed,omitempty" yaml:"removed,omitempty"`
	Modified []string `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// Empty reports whether no change was found
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Len returns the total number of changed paths
func (c ChangeSet) Len() int {
	return len(c.Added) + len(c.Removed) + len(c.Modified)
}

// Snapshots compares two snapshots with the default comparer.
// Added and Modified follow newer's order, Removed follows older's order.
func Snapshots(older, newer []domain.FileInfo) ChangeSet {
	return SnapshotsWith(NewDefaultComparer(), older, newer)
}

// SnapshotsWith compares two snapshots using comparer
func SnapshotsWith(comparer Comparer, older, newer []domain.FileInfo) ChangeSet {
	olderMap := make(map[string]*domain.FileInfo, len(older))
	for i := range older {
		olderMap[older[i].Path] = &older[i]
	}
	newerMap := make(map[string]*domain.FileInfo, len(newer))
	for i := range newer {
		newerMap[newer[i].Path] = &newer[i]
	}

	var changes ChangeSet
	for i := range newer {
		n := &newer[i]
		switch comparer.Compare(olderMap[n.Path], n) {
		case FileAdded:
			changes.Added = append(changes.Added, n.Path)
		case FileModified:
			changes.Modified = append(changes.Modified, n.Path)
		}
	}
	for i := range older {
		if _, ok := newerMap[older[i].Path]; !ok {
			changes.Removed = append(changes.Removed, older[i].Path)
		}
	}

	return changes
}
