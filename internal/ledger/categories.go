package ledger

import (
	"sort"

	"kasa/internal/core"
)

// AddCategory registers a spending or income category. Categories are
// never mutated after creation, only deleted.
func (e *Engine) AddCategory(c core.Category) (core.Category, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	id, err := e.nextID()
	if err != nil {
		return core.Category{}, err
	}
	c.ID = id

	e.doc.Categories = append(e.doc.Categories, c)
	if err := e.save(); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a category without cascading: transactions and
// installments keep their now-dangling reference and render with the
// Uncategorized fallback. Deleting an unknown id is a no-op.
func (e *Engine) DeleteCategory(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.doc.Categories[:0]
	for _, c := range e.doc.Categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	e.doc.Categories = kept

	return e.save()
}

// Categories returns all categories sorted by kind, then name.
func (e *Engine) Categories() []core.Category {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.Category, len(e.doc.Categories))
	copy(out, e.doc.Categories)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
