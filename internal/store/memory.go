package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"kasa/internal/core"
)

// Memory keeps the document in RAM. Used by tests and as a throwaway
// backend; every Save stores a deep copy so later engine mutations do
// not leak into the "persisted" state.
type Memory struct {
	mu    sync.Mutex
	doc   []byte
	saves int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (*core.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, nil
	}
	var doc core.Document
	if err := json.Unmarshal(m.doc, &doc); err != nil {
		return nil, fmt.Errorf("parse stored document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

func (m *Memory) Save(doc *core.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = body
	m.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
