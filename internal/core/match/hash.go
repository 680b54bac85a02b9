package match

import (
	"strconv"
	"strings"

	"github.com/Ning0612/fmatch/internal/core/checksum"
	"github.com/Ning0612/fmatch/internal/domain"
	"github.com/Ning0612/fmatch/internal/entity"
)

const (
	fieldSeparator     = "#"
	signatureSeparator = "_"
)

// GenerateFileListHash returns the lowercase hex SHA-256 of the signatures of
// every matched file, in path order. A signature is the relative path followed
// by the modification time and size when requested:
//
//	path#mtime#size
//
// The path is always included, so adding or removing a file changes the hash
// even with both flags off. Folders do not contribute.
func (m *Match) GenerateFileListHash(includeLastModified, includeSize bool) (string, error) {
	return m.Fingerprint(domain.HashOptions{
		IncludeLastModified: includeLastModified,
		IncludeSize:         includeSize,
	})
}

// Fingerprint is GenerateFileListHash with an options struct
func (m *Match) Fingerprint(opts domain.HashOptions) (string, error) {
	signatures, err := Files(m, func(f *entity.File) (string, error) {
		return signature(f, opts)
	})
	m.metrics.RecordFingerprint(err)
	if err != nil {
		return "", err
	}

	return checksum.SHA256Hex(strings.Join(signatures, signatureSeparator)), nil
}

func signature(f *entity.File, opts domain.HashOptions) (string, error) {
	var mtime, size string

	if opts.IncludeLastModified {
		t, err := f.LastModified()
		if err != nil {
			return "", err
		}
		mtime = strconv.FormatInt(t.UnixNano(), 10)
	}

	if opts.IncludeSize {
		n, err := f.Size()
		if err != nil {
			return "", err
		}
		size = strconv.FormatInt(n, 10)
	}

	return f.Rel() + fieldSeparator + mtime + fieldSeparator + size, nil
}

// Snapshot returns size and modification time of every matched file, in path order
func (m *Match) Snapshot() ([]domain.FileInfo, error) {
	return Files(m, (*entity.File).Info)
}
