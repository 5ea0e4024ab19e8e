// Package sqlite stores the application document in a single-row SQLite
// table. The document model stays exactly what the JSON backend writes;
// SQLite only adds durable, transactional replacement of the whole body.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kasa/internal/core"

	_ "modernc.org/sqlite"
)

// documentID is the fixed primary key of the only row: one process, one
// document.
const documentID = 1

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Load() (*core.Document, error) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM documents WHERE id = ?`, documentID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	var doc core.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (s *Store) Save(doc *core.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		documentID, body, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
