package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"kasa/internal/core"
)

// FileStore persists the document as one pretty-printed JSON file.
// Writes go to a temp file in the same directory followed by a rename,
// so a crash mid-write never leaves a corrupted document behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the document file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (*core.Document, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", s.path, err)
	}

	var doc core.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", s.path, err)
	}
	doc.Normalize()
	return &doc, nil
}

func (s *FileStore) Save(doc *core.Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return fmt.Errorf("write document %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace document %s: %w", s.path, err)
	}
	return nil
}
