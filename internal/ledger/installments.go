package ledger

import (
	"fmt"
	"sort"
	"time"

	"kasa/internal/core"
)

// ToggleResult reports the outcome of flipping one payment period.
type ToggleResult struct {
	Paid      bool `json:"paid"`
	PaidCount int  `json:"paidCount"`
	Remaining int  `json:"remaining"`
}

// PayResult reports the outcome of paying the next open period.
type PayResult struct {
	PaidCount int `json:"paidCount"`
	Remaining int `json:"remaining"`
}

// ResizeParams carries an installment term edit. Every field is applied;
// the paid bitmap is resized to NewCount preserving existing flags.
type ResizeParams struct {
	ID          int64
	Title       string
	TotalAmount float64
	NewCount    int
	CategoryID  int64
	Description string
}

// AddInstallment creates an installment with all periods unpaid. The
// monthly amount is the exact real quotient of total over count. It is
// never rounded, so the periods always sum back to the total.
func (e *Engine) AddInstallment(inst core.Installment) (core.Installment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := inst.Validate(); err != nil {
		return core.Installment{}, err
	}

	id, err := e.nextID()
	if err != nil {
		return core.Installment{}, err
	}
	inst.ID = id
	if inst.StartDate.IsZero() {
		inst.StartDate = e.clock.Now()
	}
	inst.MonthlyAmount = inst.TotalAmount / float64(inst.InstallmentCount)
	inst.PaidMonths = make([]bool, inst.InstallmentCount)
	inst.PaidCount = 0
	inst.NextPaymentDate = inst.StartDate
	inst.CreatedAt = e.clock.Now()

	e.doc.Installments = append(e.doc.Installments, inst)
	if err := e.save(); err != nil {
		return core.Installment{}, err
	}
	return inst, nil
}

// ToggleInstallmentMonth flips the paid flag of one period. The next
// payment date is recomputed by scanning for the first unpaid period.
// Paying a period (unpaid to paid) emits an expense into the ledger;
// undoing one does not reverse that entry unless StrictReversal is
// enabled. The legacy behavior leaves the payment entry in place.
func (e *Engine) ToggleInstallmentMonth(id int64, monthIndex int) (ToggleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst := e.findInstallment(id)
	if inst == nil {
		return ToggleResult{}, core.ErrNotFound
	}
	if monthIndex < 0 || monthIndex >= inst.InstallmentCount {
		return ToggleResult{}, core.ErrInvalidIndex
	}

	wasPaid := inst.PaidMonths[monthIndex]
	inst.PaidMonths[monthIndex] = !wasPaid
	inst.PaidCount = core.CountPaid(inst.PaidMonths)
	inst.NextPaymentDate = e.scanNextPayment(inst)

	if !wasPaid {
		_, err := e.addTransactionLocked(core.Transaction{
			Kind:        core.Expense,
			Amount:      inst.MonthlyAmount,
			CategoryID:  inst.CategoryID,
			Description: fmt.Sprintf("installment payment: %s (%d. month)", inst.Title, monthIndex+1),
			Date:        e.clock.Now(),
		})
		if err != nil {
			return ToggleResult{}, err
		}
	} else if e.cfg.StrictReversal {
		_, err := e.addTransactionLocked(core.Transaction{
			Kind:        core.Income,
			Amount:      inst.MonthlyAmount,
			CategoryID:  inst.CategoryID,
			Description: fmt.Sprintf("installment refund: %s (%d. month)", inst.Title, monthIndex+1),
			Date:        e.clock.Now(),
		})
		if err != nil {
			return ToggleResult{}, err
		}
	}

	if err := e.save(); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{
		Paid:      inst.PaidMonths[monthIndex],
		PaidCount: inst.PaidCount,
		Remaining: inst.InstallmentCount - inst.PaidCount,
	}, nil
}

// PayInstallment marks the first unpaid period as paid. Unlike the
// toggle path, the next payment date advances by one month from its
// previous value instead of being recomputed by scan.
func (e *Engine) PayInstallment(id int64) (PayResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst := e.findInstallment(id)
	if inst == nil {
		return PayResult{}, core.ErrNotFound
	}
	if inst.PaidCount >= inst.InstallmentCount {
		return PayResult{}, core.ErrAlreadyComplete
	}

	first := -1
	for i, paid := range inst.PaidMonths {
		if !paid {
			first = i
			break
		}
	}
	if first == -1 {
		return PayResult{}, core.ErrAlreadyComplete
	}
	inst.PaidMonths[first] = true
	inst.PaidCount = core.CountPaid(inst.PaidMonths)
	inst.NextPaymentDate = inst.NextPaymentDate.AddDate(0, 1, 0)

	_, err := e.addTransactionLocked(core.Transaction{
		Kind:        core.Expense,
		Amount:      inst.MonthlyAmount,
		CategoryID:  inst.CategoryID,
		Description: fmt.Sprintf("installment payment: %s (%d/%d)", inst.Title, inst.PaidCount, inst.InstallmentCount),
		Date:        e.clock.Now(),
	})
	if err != nil {
		return PayResult{}, err
	}

	if err := e.save(); err != nil {
		return PayResult{}, err
	}
	return PayResult{
		PaidCount: inst.PaidCount,
		Remaining: inst.InstallmentCount - inst.PaidCount,
	}, nil
}

// ResizeInstallment edits an installment's term. Growing appends unpaid
// periods; shrinking truncates from the end, silently dropping paid flags
// beyond the new length. Dropped payments keep their ledger entries
// unless StrictReversal is enabled, in which case each one is refunded.
// The next payment date is not recomputed here; it stays stale until the
// next toggle.
func (e *Engine) ResizeInstallment(p ResizeParams) (core.Installment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst := e.findInstallment(p.ID)
	if inst == nil {
		return core.Installment{}, core.ErrNotFound
	}
	if p.NewCount < 1 {
		return core.Installment{}, core.ErrInvalidCount
	}

	if e.cfg.StrictReversal && p.NewCount < inst.InstallmentCount {
		for i := p.NewCount; i < inst.InstallmentCount; i++ {
			if !inst.PaidMonths[i] {
				continue
			}
			_, err := e.addTransactionLocked(core.Transaction{
				Kind:        core.Income,
				Amount:      inst.MonthlyAmount,
				CategoryID:  inst.CategoryID,
				Description: fmt.Sprintf("installment refund: %s (%d. month)", inst.Title, i+1),
				Date:        e.clock.Now(),
			})
			if err != nil {
				return core.Installment{}, err
			}
		}
	}

	inst.Title = p.Title
	inst.TotalAmount = p.TotalAmount
	inst.InstallmentCount = p.NewCount
	inst.MonthlyAmount = p.TotalAmount / float64(p.NewCount)
	inst.CategoryID = p.CategoryID
	inst.Description = p.Description
	inst.PaidMonths = core.ResizeBitmap(inst.PaidMonths, p.NewCount)
	inst.PaidCount = core.CountPaid(inst.PaidMonths)

	if err := e.save(); err != nil {
		return core.Installment{}, err
	}
	return *inst, nil
}

// DeleteInstallment removes the installment record only; ledger entries
// it created stay. Deleting an unknown id is a no-op.
func (e *Engine) DeleteInstallment(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.doc.Installments[:0]
	for _, inst := range e.doc.Installments {
		if inst.ID != id {
			kept = append(kept, inst)
		}
	}
	e.doc.Installments = kept

	return e.save()
}

// Installments returns all installments enriched with category display
// metadata, ordered by next payment date.
func (e *Engine) Installments() []core.InstallmentView {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.InstallmentView, 0, len(e.doc.Installments))
	for _, inst := range e.doc.Installments {
		name, color, icon := e.categoryDisplay(inst.CategoryID)
		out = append(out, core.InstallmentView{
			Installment:   inst,
			CategoryName:  name,
			CategoryColor: color,
			CategoryIcon:  icon,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextPaymentDate.Before(out[j].NextPaymentDate)
	})
	return out
}

func (e *Engine) findInstallment(id int64) *core.Installment {
	for i := range e.doc.Installments {
		if e.doc.Installments[i].ID == id {
			return &e.doc.Installments[i]
		}
	}
	return nil
}

// scanNextPayment finds the due date of the first unpaid period: the
// start date shifted forward by that period's index in months. With
// every period paid it lands one month past the final period.
func (e *Engine) scanNextPayment(inst *core.Installment) time.Time {
	for i, paid := range inst.PaidMonths {
		if !paid {
			return inst.StartDate.AddDate(0, i, 0)
		}
	}
	return inst.StartDate.AddDate(0, inst.InstallmentCount, 0)
}
