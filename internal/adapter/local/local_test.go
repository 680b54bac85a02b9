package local

import (
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"github.com/Ning0612/fmatch/internal/domain"
)

func newMemTree(t *testing.T) (*Adapter, string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	root := "/work"
	files := map[string]string{
		"a.txt":         "0123456789",
		"b.txt":         "01234567890123456789",
		"sub/c.txt":     "c",
		"sub/deep/d.md": "d",
	}
	if err := fs.MkdirAll(filepath.Join(root, "sub", "deep"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	return New(fs), root
}

func TestAdapter_Queries(t *testing.T) {
	a, root := newMemTree(t)

	tests := []struct {
		path     string
		exists   bool
		isFile   bool
		isFolder bool
	}{
		{filepath.Join(root, "a.txt"), true, true, false},
		{filepath.Join(root, "sub"), true, false, true},
		{filepath.Join(root, "missing.txt"), false, false, false},
	}

	for _, tt := range tests {
		if got := a.Exists(tt.path); got != tt.exists {
			t.Errorf("Exists(%s) = %v, want %v", tt.path, got, tt.exists)
		}
		if got := a.IsFile(tt.path); got != tt.isFile {
			t.Errorf("IsFile(%s) = %v, want %v", tt.path, got, tt.isFile)
		}
		if got := a.IsFolder(tt.path); got != tt.isFolder {
			t.Errorf("IsFolder(%s) = %v, want %v", tt.path, got, tt.isFolder)
		}
	}
}

func TestAdapter_Stat(t *testing.T) {
	a, root := newMemTree(t)

	info, err := a.Stat(filepath.Join(root, "b.txt"))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size != 20 {
		t.Errorf("Size = %d, want 20", info.Size)
	}
	if !info.IsFile() {
		t.Error("expected file kind")
	}

	dir, err := a.Stat(filepath.Join(root, "sub"))
	if err != nil {
		t.Fatalf("Stat(dir) error = %v", err)
	}
	if !dir.IsDir() || dir.Size != 0 {
		t.Errorf("unexpected folder info: %+v", dir)
	}

	_, err = a.Stat(filepath.Join(root, "missing"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_Open(t *testing.T) {
	a, root := newMemTree(t)

	r, err := a.Open(filepath.Join(root, "a.txt"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "0123456789" {
		t.Errorf("content = %q", data)
	}

	if _, err := a.Open(filepath.Join(root, "sub")); !errors.Is(err, domain.ErrNotFile) {
		t.Errorf("expected ErrNotFile, got %v", err)
	}
	if _, err := a.Open(filepath.Join(root, "nope")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_Glob(t *testing.T) {
	a, root := newMemTree(t)

	tests := []struct {
		pattern string
		want    []string
	}{
		{"*.txt", []string{"a.txt", "b.txt"}},
		{"./*.txt", []string{"a.txt", "b.txt"}},
		{"**/*.txt", []string{"a.txt", "b.txt", "sub/c.txt"}},
		{"sub/*", []string{"sub/c.txt", "sub/deep"}},
		{"*.go", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := a.Glob(tt.pattern, root)
			if err != nil {
				t.Fatalf("Glob() error = %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Glob(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestAdapter_GlobErrors(t *testing.T) {
	a, root := newMemTree(t)

	if _, err := a.Glob("[", root); !errors.Is(err, domain.ErrBadPattern) {
		t.Errorf("expected ErrBadPattern, got %v", err)
	}
	if _, err := a.Glob("/abs/*.txt", root); !errors.Is(err, domain.ErrBadPattern) {
		t.Errorf("expected ErrBadPattern for absolute pattern, got %v", err)
	}
	if _, err := a.Glob("*.txt", "/nowhere"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing root, got %v", err)
	}
	if _, err := a.Glob("*.txt", filepath.Join(root, "a.txt")); !errors.Is(err, domain.ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory for file root, got %v", err)
	}
}

func TestNew_DefaultsToOS(t *testing.T) {
	a := New(nil)
	if _, ok := a.Fs().(*afero.OsFs); !ok {
		t.Errorf("expected OsFs, got %T", a.Fs())
	}
}
