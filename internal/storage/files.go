// Package storage keeps uploaded book covers and PDFs on local disk,
// served back under the /uploads static route.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Umair-Ahm3d/Club-Lit/internal/fault"
)

const (
	MaxCoverSize = 5 << 20
	MaxPDFSize   = 50 << 20

	webPrefix = "/uploads/"
)

var coverExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Store writes files under its root directory, one subdirectory per kind.
// Names are fresh UUIDs, so uploads never collide or overwrite.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	for _, sub := range []string{"covers", "books"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Store{root: root}, nil
}

// SaveCover stores a cover image and returns its web path. The declared
// size is checked before reading and enforced again while copying.
func (s *Store) SaveCover(filename string, size int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !coverExts[ext] {
		return "", fault.Validation("cover must be a jpeg, png, or webp image")
	}
	if size > MaxCoverSize {
		return "", fault.Validation("cover exceeds %d MiB", MaxCoverSize>>20)
	}
	return s.save("covers", ext, MaxCoverSize, r)
}

// SavePDF stores a book file and returns its web path.
func (s *Store) SavePDF(filename string, size int64, r io.Reader) (string, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return "", fault.Validation("book file must be a pdf")
	}
	if size > MaxPDFSize {
		return "", fault.Validation("book file exceeds %d MiB", MaxPDFSize>>20)
	}
	return s.save("books", ".pdf", MaxPDFSize, r)
}

func (s *Store) save(sub, ext string, limit int64, r io.Reader) (string, error) {
	name := uuid.New().String() + ext
	dst := filepath.Join(s.root, sub, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	// limit+1 so a lying Content-Length still cannot exceed the cap.
	written, err := io.Copy(f, io.LimitReader(r, limit+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > limit {
		os.Remove(dst)
		return "", fault.Validation("upload exceeds %d MiB", limit>>20)
	}

	return webPrefix + sub + "/" + name, nil
}

// Remove deletes the file behind a web path previously returned by a save.
// Paths that do not resolve inside the store root are refused.
func (s *Store) Remove(webPath string) error {
	rel := strings.TrimPrefix(webPath, webPrefix)
	if rel == webPath {
		return fmt.Errorf("not an upload path: %s", webPath)
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return fmt.Errorf("resolve upload root: %w", err)
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return fmt.Errorf("resolve upload path: %w", err)
	}
	if !strings.HasPrefix(fullAbs, rootAbs+string(os.PathSeparator)) {
		return fmt.Errorf("upload path escapes store root: %s", webPath)
	}

	if err := os.Remove(fullAbs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
