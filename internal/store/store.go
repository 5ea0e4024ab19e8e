// Package store persists the application document. The engine mutates a
// single in-memory document and writes it back through a DocumentStore
// after every mutation; there is no batching and no write-ahead log.
package store

import (
	"fmt"

	"kasa/internal/core"
)

// DocumentStore is the outbound port for durable document storage.
type DocumentStore interface {
	// Load returns the persisted document, or (nil, nil) when no
	// document has been saved yet.
	Load() (*core.Document, error)
	// Save durably writes the full document before returning.
	Save(doc *core.Document) error
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Open creates a DocumentStore for the given backend name. The sqlite
// backend lives in its own package and is wired by the caller to keep
// the driver import out of pure-Go builds.
func Open(backend, path string) (DocumentStore, CleanupFunc, error) {
	switch backend {
	case BackendJSON:
		return NewFileStore(path), func() error { return nil }, nil
	case BackendMemory:
		return NewMemory(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
