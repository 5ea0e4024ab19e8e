package ledger

import (
	"sort"

	"kasa/internal/core"
)

// AddTransaction appends a money movement and adjusts the balance by its
// signed amount. A zero Date defaults to the current time. The returned
// transaction carries its assigned id.
func (e *Engine) AddTransaction(t core.Transaction) (core.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addTransactionLocked(t)
}

// addTransactionLocked is shared with the installment scheduler, which
// emits payment entries while already holding the engine lock.
func (e *Engine) addTransactionLocked(t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := e.nextID()
	if err != nil {
		return core.Transaction{}, err
	}
	t.ID = id
	if t.Date.IsZero() {
		t.Date = e.clock.Now()
	}

	e.doc.Transactions = append(e.doc.Transactions, t)
	if t.Kind == core.Income {
		e.doc.Balance += t.Amount
	} else {
		e.doc.Balance -= t.Amount
	}

	if err := e.save(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// DeleteTransaction removes a transaction and reverses exactly the
// contribution it made to the balance when it was created, using its own
// stored kind and amount. Deleting an unknown id is a no-op.
func (e *Engine) DeleteTransaction(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.doc.Transactions[:0]
	for _, t := range e.doc.Transactions {
		if t.ID != id {
			kept = append(kept, t)
			continue
		}
		if t.Kind == core.Income {
			e.doc.Balance -= t.Amount
		} else {
			e.doc.Balance += t.Amount
		}
	}
	e.doc.Transactions = kept

	return e.save()
}

// Transactions returns all transactions enriched with category display
// metadata, newest first.
func (e *Engine) Transactions() []core.TransactionView {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.TransactionView, 0, len(e.doc.Transactions))
	for _, t := range e.doc.Transactions {
		out = append(out, e.transactionView(t))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Balance returns the stored running balance.
func (e *Engine) Balance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Balance
}

// SetBalance overrides the balance directly, bypassing the ledger. No
// transaction is recorded.
func (e *Engine) SetBalance(amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc.Balance = amount
	return e.save()
}
