package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage lays out per-user export and upload files under root.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) UserDir(userID string) string {
	return filepath.Join(s.root, safeName(userID))
}

func (s *FileStorage) ExportsDir(userID string) string {
	return filepath.Join(s.UserDir(userID), "exports")
}

func (s *FileStorage) ExportJSONPath(userID, designID string) string {
	return filepath.Join(s.ExportsDir(userID), safeName(designID)+".json")
}

func (s *FileStorage) ExportSVGPath(userID, designID string) string {
	return filepath.Join(s.ExportsDir(userID), safeName(designID)+".svg")
}

func (s *FileStorage) UploadsDir(userID string) string {
	return filepath.Join(s.UserDir(userID), "uploads")
}

func (s *FileStorage) UploadSVGPath(userID, base string) string {
	return filepath.Join(s.UploadsDir(userID), safeName(base)+".svg")
}

func (s *FileStorage) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// SaveFile writes data to target, creating its directory.
func (s *FileStorage) SaveFile(target string, data []byte) error {
	if err := s.EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s *FileStorage) ReadFile(target string) ([]byte, error) {
	data, err := os.ReadFile(target)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

// ListExports returns the exported file names of a user, sorted.
func (s *FileStorage) ListExports(userID string) ([]string, error) {
	entries, err := os.ReadDir(s.ExportsDir(userID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read exports: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// safeName keeps path components inside their parent directory.
func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
