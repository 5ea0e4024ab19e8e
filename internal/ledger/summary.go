package ledger

import (
	"sort"
	"time"

	"kasa/internal/core"
)

// MonthlySummary projects the ledger onto one calendar month: totals per
// flow direction, totals grouped by (category, direction), and the
// matching transactions. It is a pure read; nothing is persisted.
//
// The window is the month's first through last day inclusive; dates are
// compared as calendar days, so time-of-day never pushes a transaction
// over a boundary.
func (e *Engine) MonthlySummary(year int, month time.Month) core.MonthlySummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	summary := core.MonthlySummary{Year: year, Month: int(month)}

	type bucketKey struct {
		categoryID int64
		kind       core.Kind
	}
	buckets := make(map[bucketKey]*core.CategoryTotal)
	var order []bucketKey

	for _, t := range e.doc.Transactions {
		d := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(first) || d.After(last) {
			continue
		}

		if t.Kind == core.Income {
			summary.Income += t.Amount
		} else {
			summary.Expense += t.Amount
		}

		key := bucketKey{t.CategoryID, t.Kind}
		b, ok := buckets[key]
		if !ok {
			name, color, icon := e.categoryDisplay(t.CategoryID)
			b = &core.CategoryTotal{Name: name, Color: color, Icon: icon, Kind: t.Kind}
			buckets[key] = b
			order = append(order, key)
		}
		b.Total += t.Amount

		summary.Transactions = append(summary.Transactions, e.transactionView(t))
	}

	summary.Net = summary.Income - summary.Expense

	for _, key := range order {
		summary.ByCategory = append(summary.ByCategory, *buckets[key])
	}
	sort.SliceStable(summary.ByCategory, func(i, j int) bool {
		if summary.ByCategory[i].Total != summary.ByCategory[j].Total {
			return summary.ByCategory[i].Total > summary.ByCategory[j].Total
		}
		return summary.ByCategory[i].Name < summary.ByCategory[j].Name
	})

	sort.SliceStable(summary.Transactions, func(i, j int) bool {
		return summary.Transactions[i].Date.After(summary.Transactions[j].Date)
	})

	return summary
}
