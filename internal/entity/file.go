package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/Ning0612/fmatch/internal/adapter"
	"github.com/Ning0612/fmatch/internal/core/checksum"
	"github.com/Ning0612/fmatch/internal/domain"
)

// File is the regular-file variant of Entity
type File struct {
	base
}

// NewFile creates a File for rel under root.
// Callers classify first; NewFile does not check the filesystem.
func NewFile(fs adapter.FileSystem, root, rel string, syncMode bool) *File {
	f := &File{base: newBase(fs, root, rel, domain.KindFile, syncMode)}
	f.init()
	return f
}

// Size returns the byte length of the file, queried live
func (f *File) Size() (int64, error) {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// LastModified returns the modification time of the file, queried live
func (f *File) LastModified() (time.Time, error) {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime, nil
}

// Info returns size and modification time in a single query.
// Path is the root-relative path.
func (f *File) Info() (domain.FileInfo, error) {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return domain.FileInfo{}, err
	}
	info.Path = f.rel
	return info, nil
}

// Checksum streams the file content through calc
func (f *File) Checksum(ctx context.Context, calc checksum.Calculator, algo checksum.Algorithm) (string, error) {
	reader, err := f.fs.Open(f.path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	sum, err := calc.Calculate(ctx, reader, algo)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", f.rel, err)
	}
	return sum, nil
}
