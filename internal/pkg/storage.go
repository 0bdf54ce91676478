package pkg

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/simp-lee/soundmint/internal/domain"
)

// FileKind restricts what an upload may contain.
type FileKind int

const (
	KindImage FileKind = iota
	KindAudio
)

func (k FileKind) String() string {
	if k == KindAudio {
		return "audio"
	}
	return "image"
}

// sniffLen is enough for every signature filetype knows about.
const sniffLen = 262

// Storage writes uploaded media below a root directory. Stored paths are
// slash-separated and relative to the root so they can be served as-is.
type Storage struct {
	root     string
	maxBytes int64
}

// NewStorage creates the root directory if needed.
func NewStorage(root string, maxBytes int64) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %q: %w", root, err)
	}
	return &Storage{root: root, maxBytes: maxBytes}, nil
}

// Root returns the directory uploads are written to.
func (s *Storage) Root() string {
	return s.root
}

// Save sniffs the file content, rejects anything that is not of the wanted
// kind and stores it as dir/<uuid>.<ext>.
func (s *Storage) Save(fh *multipart.FileHeader, kind FileKind, dir string) (string, error) {
	if fh == nil {
		return "", domain.NewAppError(domain.CodeValidation, kind.String()+" file is required", nil)
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", domain.NewAppError(domain.CodeValidation, fmt.Sprintf("%s file exceeds %d bytes", kind, s.maxBytes), nil)
	}

	src, err := fh.Open()
	if err != nil {
		return "", domain.NewAppError(domain.CodeValidation, "cannot read uploaded file", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", domain.NewAppError(domain.CodeValidation, "cannot read uploaded file", err)
	}
	head = head[:n]

	ok := filetype.IsImage(head)
	if kind == KindAudio {
		ok = filetype.IsAudio(head)
	}
	if !ok {
		return "", domain.NewAppError(domain.CodeValidation, fmt.Sprintf("%s has unsupported content, want %s", fh.Filename, kind), nil)
	}
	ft, err := filetype.Match(head)
	if err != nil || ft == filetype.Unknown {
		return "", domain.NewAppError(domain.CodeValidation, fmt.Sprintf("%s has unsupported content, want %s", fh.Filename, kind), err)
	}

	name := uuid.NewString() + "." + ft.Extension
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "storage error", err)
	}
	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "storage error", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "storage error", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "storage error", err)
	}

	return path.Join(dir, name), nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Storage) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
