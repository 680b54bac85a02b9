package domain

import "time"

// EntryKind discriminates the two entity variants a matched path can become
type EntryKind int

const (
	KindFile EntryKind = iota
	KindFolder
)

// String returns the string representation of the kind
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// FileInfo represents metadata about a matched file or folder
type FileInfo struct {
	// Path is the slash-separated path relative to the match root
	Path string `json:"path" yaml:"path"`

	// Kind indicates if this is a file or a folder
	Kind EntryKind `json:"-" yaml:"-"`

	// Size in bytes (0 for folders)
	Size int64 `json:"size" yaml:"size"`

	// ModTime is the last modification time
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// IsDir returns true if this is a folder
func (f FileInfo) IsDir() bool {
	return f.Kind == KindFolder
}

// IsFile returns true if this is a regular file
func (f FileInfo) IsFile() bool {
	return f.Kind == KindFile
}
