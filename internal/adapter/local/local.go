package local

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/Ning0612/fmatch/internal/domain"
)

// Adapter implements adapter.FileSystem and adapter.Globber on top of an afero.Fs
type Adapter struct {
	fs afero.Fs
}

// New creates a new local adapter over fsys
// A nil fsys means the real operating system filesystem
func New(fsys afero.Fs) *Adapter {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Adapter{fs: fsys}
}

// NewOS creates an adapter over the operating system filesystem
func NewOS() *Adapter {
	return New(afero.NewOsFs())
}

// Fs returns the underlying afero filesystem
func (a *Adapter) Fs() afero.Fs {
	return a.fs
}

// Exists checks if a path exists
func (a *Adapter) Exists(path string) bool {
	_, err := a.fs.Stat(path)
	return err == nil
}

// IsFile checks if a path is an existing regular file
func (a *Adapter) IsFile(path string) bool {
	info, err := a.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsFolder checks if a path is an existing directory
func (a *Adapter) IsFolder(path string) bool {
	info, err := a.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Stat returns metadata for a single path
func (a *Adapter) Stat(path string) (domain.FileInfo, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return domain.FileInfo{}, fmt.Errorf("stat %s: %w", path, a.mapError(err))
	}
	return fileInfoFromOS(path, info), nil
}

// Open opens a file for reading
func (a *Adapter) Open(path string) (io.ReadCloser, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, a.mapError(err))
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open %s: %w", path, domain.ErrNotFile)
	}

	file, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, a.mapError(err))
	}
	return file, nil
}

// Glob resolves pattern against root
func (a *Adapter) Glob(pattern, root string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", domain.ErrBadPattern, pattern)
	}

	// Patterns are always relative to root
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	if strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q is absolute", domain.ErrBadPattern, pattern)
	}

	info, err := a.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", root, a.mapError(err))
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s: %w", root, domain.ErrNotDirectory)
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(a.fs, root))
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFailOnIOErrors())
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, fmt.Errorf("%w: %q", domain.ErrBadPattern, pattern)
		}
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, root, a.mapError(err))
	}

	return matches, nil
}

// fileInfoFromOS converts fs.FileInfo to domain.FileInfo
func fileInfoFromOS(path string, info fs.FileInfo) domain.FileInfo {
	kind := domain.KindFile
	if info.IsDir() {
		kind = domain.KindFolder
	}

	var size int64
	if kind == domain.KindFile {
		size = info.Size()
	}

	return domain.FileInfo{
		Path:    filepath.ToSlash(path), // Normalize to forward slashes
		Kind:    kind,
		Size:    size,
		ModTime: info.ModTime(),
	}
}

// mapError converts OS errors to domain errors
func (a *Adapter) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrNotFound
	}
	if errors.Is(err, fs.ErrPermission) {
		return domain.ErrPermissionDenied
	}

	// afero and the OS report ENOTDIR through *os.PathError
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && strings.Contains(pathErr.Err.Error(), "not a directory") {
		return domain.ErrNotDirectory
	}

	return err
}
