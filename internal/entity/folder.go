package entity

import (
	"github.com/Ning0612/fmatch/internal/adapter"
	"github.com/Ning0612/fmatch/internal/domain"
)

// Folder is the directory variant of Entity. It adds nothing to the base.
type Folder struct {
	base
}

// NewFolder creates a Folder for rel under root.
func NewFolder(fs adapter.FileSystem, root, rel string, syncMode bool) *Folder {
	f := &Folder{base: newBase(fs, root, rel, domain.KindFolder, syncMode)}
	f.init()
	return f
}
