package match

import (
	"fmt"

	"github.com/Ning0612/fmatch/internal/entity"
)

// All classifies every stored path, wraps it as a File or Folder and collects
// handler results in path order. Classification is redone on every call.
func All[T any](m *Match, handler func(entity.Entity) (T, error)) ([]T, error) {
	paths, err := m.checkPaths()
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(paths))
	for _, p := range paths {
		r, err := handler(entity.Classify(m.fs, m.cwd, p, m.syncMode))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Files runs handler on every stored path that is a regular file right now.
// Folders are skipped.
func Files[T any](m *Match, handler func(*entity.File) (T, error)) ([]T, error) {
	paths, err := m.checkPaths()
	if err != nil {
		return nil, err
	}

	var results []T
	for _, p := range paths {
		if !m.fs.IsFile(m.fullPath(p)) {
			continue
		}
		r, err := handler(entity.NewFile(m.fs, m.cwd, p, m.syncMode))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Folders runs handler on every stored path that is a directory right now.
// Files are skipped.
func Folders[T any](m *Match, handler func(*entity.Folder) (T, error)) ([]T, error) {
	paths, err := m.checkPaths()
	if err != nil {
		return nil, err
	}

	var results []T
	for _, p := range paths {
		if !m.fs.IsFolder(m.fullPath(p)) {
			continue
		}
		r, err := handler(entity.NewFolder(m.fs, m.cwd, p, m.syncMode))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Entities returns every stored path as an entity
func (m *Match) Entities() ([]entity.Entity, error) {
	return All(m, func(e entity.Entity) (entity.Entity, error) { return e, nil })
}

// FileEntities returns the stored paths that are files
func (m *Match) FileEntities() ([]*entity.File, error) {
	return Files(m, func(f *entity.File) (*entity.File, error) { return f, nil })
}

// FolderEntities returns the stored paths that are folders
func (m *Match) FolderEntities() ([]*entity.Folder, error) {
	return Folders(m, func(f *entity.Folder) (*entity.Folder, error) { return f, nil })
}
