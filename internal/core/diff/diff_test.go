package diff

import (
	"reflect"
	"testing"
	"time"

	"github.com/Ning0612/fmatch/internal/domain"
)

func TestDefaultComparer_FilesIdentical(t *testing.T) {
	comparer := NewDefaultComparer()
	now := time.Now()

	older := &domain.FileInfo{Path: "test.txt", Kind: domain.KindFile, Size: 100, ModTime: now}
	newer := &domain.FileInfo{Path: "test.txt", Kind: domain.KindFile, Size: 100, ModTime: now}

	if result := comparer.Compare(older, newer); result != FilesIdentical {
		t.Errorf("Expected FilesIdentical, got %v", result)
	}
}

func TestDefaultComparer_Modified(t *testing.T) {
	comparer := NewDefaultComparer()
	now := time.Now()

	tests := []struct {
		name  string
		older domain.FileInfo
		newer domain.FileInfo
	}{
		{
			name:  "size differs",
			older: domain.FileInfo{Path: "a", Kind: domain.KindFile, Size: 100, ModTime: now},
			newer: domain.FileInfo{Path: "a", Kind: domain.KindFile, Size: 200, ModTime: now},
		},
		{
			name:  "mtime differs",
			older: domain.FileInfo{Path: "a", Kind: domain.KindFile, Size: 100, ModTime: now},
			newer: domain.FileInfo{Path: "a", Kind: domain.KindFile, Size: 100, ModTime: now.Add(time.Second)},
		},
		{
			name:  "kind differs",
			older: domain.FileInfo{Path: "a", Kind: domain.KindFile},
			newer: domain.FileInfo{Path: "a", Kind: domain.KindFolder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := comparer.Compare(&tt.older, &tt.newer); result != FileModified {
				t.Errorf("Expected FileModified, got %v", result)
			}
		})
	}
}

func TestDefaultComparer_AddedRemoved(t *testing.T) {
	comparer := NewDefaultComparer()
	info := &domain.FileInfo{Path: "a", Kind: domain.KindFile}

	if r := comparer.Compare(nil, info); r != FileAdded {
		t.Errorf("Expected FileAdded, got %v", r)
	}
	if r := comparer.Compare(info, nil); r != FileRemoved {
		t.Errorf("Expected FileRemoved, got %v", r)
	}
	if r := comparer.Compare(nil, nil); r != FilesIdentical {
		t.Errorf("Expected FilesIdentical, got %v", r)
	}
}

func TestDefaultComparer_FoldersIgnoreMetadata(t *testing.T) {
	comparer := NewDefaultComparer()
	older := &domain.FileInfo{Path: "d", Kind: domain.KindFolder, ModTime: time.Unix(1, 0)}
	newer := &domain.FileInfo{Path: "d", Kind: domain.KindFolder, ModTime: time.Unix(2, 0)}

	if r := comparer.Compare(older, newer); r != FilesIdentical {
		t.Errorf("Expected FilesIdentical, got %v", r)
	}
}

func TestSnapshots(t *testing.T) {
	t0 := time.Unix(1000, 0)
	older := []domain.FileInfo{
		{Path: "a.txt", Size: 10, ModTime: t0},
		{Path: "b.txt", Size: 20, ModTime: t0},
		{Path: "c.txt", Size: 30, ModTime: t0},
	}
	newer := []domain.FileInfo{
		{Path: "a.txt", Size: 10, ModTime: t0},
		{Path: "c.txt", Size: 31, ModTime: t0},
		{Path: "d.txt", Size: 1, ModTime: t0},
	}

	got := Snapshots(older, newer)
	want := ChangeSet{
		Added:    []string{"d.txt"},
		Removed:  []string{"b.txt"},
		Modified: []string{"c.txt"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshots() = %+v, want %+v", got, want)
	}
	if got.Empty() || got.Len() != 3 {
		t.Errorf("unexpected Empty()/Len(): %v/%d", got.Empty(), got.Len())
	}

	if same := Snapshots(older, older); !same.Empty() {
		t.Errorf("identical snapshots should produce no changes: %+v", same)
	}
}

func TestDiffResult_String(t *testing.T) {
	tests := map[DiffResult]string{
		FilesIdentical: "identical",
		FileModified:   "modified",
		FileAdded:      "added",
		FileRemoved:    "removed",
		DiffResult(99): "unknown",
	}
	for r, want := range tests {
		if r.String() != want {
			t.Errorf("String() = %s, want %s", r.String(), want)
		}
	}
}
