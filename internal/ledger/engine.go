// Package ledger implements the bookkeeping engine: the transaction
// ledger with its running balance, the installment scheduler, the
// category index, the monthly summary projection, and the note store.
//
// The engine owns the single application document. Every mutation
// allocates ids from the shared counter, updates the in-memory document,
// and synchronously persists the whole document before returning.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"kasa/internal/core"
	"kasa/internal/store"
)

// Clock is the engine's source of "now". Tests substitute a fixed one.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Config tunes engine behavior.
type Config struct {
	// StrictReversal makes undo-style operations balance-neutral: undoing
	// a paid period, or dropping paid periods when an installment term
	// shrinks, emits compensating refund entries into the ledger. Off by
	// default: the legacy behavior leaves the original payment entries
	// in place and untracked.
	StrictReversal bool
}

// Engine serializes all access to the document with one mutex: HTTP
// handlers and the alarm scanner share a single instance.
type Engine struct {
	mu    sync.Mutex
	doc   *core.Document
	store store.DocumentStore
	clock Clock
	cfg   Config
}

// New loads the persisted document (seeding a fresh one when absent) and
// returns a ready engine.
func New(st store.DocumentStore, clock Clock, cfg Config) (*Engine, error) {
	if clock == nil {
		clock = SystemClock{}
	}

	doc, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if doc == nil {
		doc = core.NewDocument()
		if err := st.Save(doc); err != nil {
			return nil, fmt.Errorf("seed document: %w", err)
		}
	}

	return &Engine{doc: doc, store: st, clock: clock, cfg: cfg}, nil
}

// nextID hands out one id from the shared monotonic counter. The
// allocation is persisted before the id is used, so a crash can never
// re-issue an id that already escaped. Ids are never reused.
func (e *Engine) nextID() (int64, error) {
	id := e.doc.NextID
	e.doc.NextID++
	if err := e.store.Save(e.doc); err != nil {
		e.doc.NextID--
		return 0, fmt.Errorf("persist id allocation: %w", err)
	}
	return id, nil
}

func (e *Engine) save() error {
	if err := e.store.Save(e.doc); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

func (e *Engine) categoryDisplay(id int64) (name, color, icon string) {
	if c, ok := e.doc.CategoryByID(id); ok {
		return c.Name, c.Color, c.Icon
	}
	return core.FallbackCategoryName, core.FallbackCategoryColor, core.FallbackCategoryIcon
}

func (e *Engine) transactionView(t core.Transaction) core.TransactionView {
	name, color, icon := e.categoryDisplay(t.CategoryID)
	return core.TransactionView{
		Transaction:   t,
		CategoryName:  name,
		CategoryColor: color,
		CategoryIcon:  icon,
	}
}
