package ledger

import (
	"errors"
	"testing"
	"time"

	"kasa/internal/core"
)

func addInstallment(t *testing.T, eng *Engine, total float64, count int, start time.Time) core.Installment {
	t.Helper()
	inst, err := eng.AddInstallment(core.Installment{
		Title:            "laptop",
		TotalAmount:      total,
		InstallmentCount: count,
		CategoryID:       11,
		StartDate:        start,
	})
	if err != nil {
		t.Fatalf("AddInstallment: %v", err)
	}
	return inst
}

func TestAddInstallmentAmortizes(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	inst := addInstallment(t, eng, 1200, 12, start)

	if inst.MonthlyAmount != 100 {
		t.Errorf("monthly = %v, want 100", inst.MonthlyAmount)
	}
	if !inst.NextPaymentDate.Equal(start) {
		t.Errorf("next payment = %v, want start %v", inst.NextPaymentDate, start)
	}
	if inst.PaidCount != 0 || len(inst.PaidMonths) != 12 {
		t.Errorf("expected 12 unpaid periods, got count=%d len=%d", inst.PaidCount, len(inst.PaidMonths))
	}
	for i, paid := range inst.PaidMonths {
		if paid {
			t.Errorf("period %d paid at creation", i)
		}
	}
}

func TestMonthlyAmountIsExactQuotient(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})

	inst := addInstallment(t, eng, 1000, 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if got, want := inst.MonthlyAmount, 1000.0/3.0; got != want {
		t.Errorf("monthly = %v, want exact quotient %v", got, want)
	}
}

func TestTogglePaysPeriodAndEmitsExpense(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inst := addInstallment(t, eng, 1200, 12, start)

	res, err := eng.ToggleInstallmentMonth(inst.ID, 0)
	if err != nil {
		t.Fatalf("ToggleInstallmentMonth: %v", err)
	}
	if !res.Paid || res.PaidCount != 1 || res.Remaining != 11 {
		t.Errorf("result = %+v, want paid, 1 paid, 11 remaining", res)
	}

	list := eng.Installments()
	if len(list) != 1 {
		t.Fatalf("expected 1 installment, got %d", len(list))
	}
	wantNext := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if !list[0].NextPaymentDate.Equal(wantNext) {
		t.Errorf("next payment = %v, want %v", list[0].NextPaymentDate, wantNext)
	}

	txs := eng.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(txs))
	}
	if txs[0].Kind != core.Expense || txs[0].Amount != 100 {
		t.Errorf("ledger entry = %v %v, want expense 100", txs[0].Kind, txs[0].Amount)
	}
	if txs[0].Description != "installment payment: laptop (1. month)" {
		t.Errorf("description = %q", txs[0].Description)
	}
	if got := eng.Balance(); got != -100 {
		t.Errorf("balance = %v, want -100", got)
	}
}

func TestToggleIsOwnInverseOnBitmapButNotBalanceNeutral(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	inst := addInstallment(t, eng, 1200, 12, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if _, err := eng.ToggleInstallmentMonth(inst.ID, 3); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	res, err := eng.ToggleInstallmentMonth(inst.ID, 3)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if res.Paid || res.PaidCount != 0 || res.Remaining != 12 {
		t.Errorf("bitmap not restored: %+v", res)
	}
	// The payment's ledger entry stays: the undo is not balance-neutral.
	if n := len(eng.Transactions()); n != 1 {
		t.Errorf("expected the payment entry to remain, got %d entries", n)
	}
	if got := eng.Balance(); got != -100 {
		t.Errorf("balance = %v, want -100 after toggle round trip", got)
	}
}

func TestToggleOffWithStrictReversalRefunds(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{StrictReversal: true})
	inst := addInstallment(t, eng, 1200, 12, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if _, err := eng.ToggleInstallmentMonth(inst.ID, 0); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if _, err := eng.ToggleInstallmentMonth(inst.ID, 0); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if got := eng.Balance(); got != 0 {
		t.Errorf("balance = %v, want 0 under strict reversal", got)
	}
	txs := eng.Transactions()
	if len(txs) != 2 {
		t.Fatalf("expected payment + refund, got %d entries", len(txs))
	}
	found := false
	for _, tx := range txs {
		if tx.Kind == core.Income && tx.Description == "installment refund: laptop (1. month)" {
			found = true
		}
	}
	if !found {
		t.Errorf("refund entry missing: %+v", txs)
	}
}

func TestToggleErrors(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	inst := addInstallment(t, eng, 600, 6, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		id    int64
		index int
		want  error
	}{
		{"unknown id", 424242, 0, core.ErrNotFound},
		{"negative index", inst.ID, -1, core.ErrInvalidIndex},
		{"index at count", inst.ID, 6, core.ErrInvalidIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := eng.ToggleInstallmentMonth(tt.id, tt.index); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPayInstallmentAdvancesDateByIncrement(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inst := addInstallment(t, eng, 300, 3, start)

	res, err := eng.PayInstallment(inst.ID)
	if err != nil {
		t.Fatalf("PayInstallment: %v", err)
	}
	if res.PaidCount != 1 || res.Remaining != 2 {
		t.Errorf("result = %+v", res)
	}

	list := eng.Installments()
	// Increment-based: one month past the previous next payment date.
	wantNext := start.AddDate(0, 1, 0)
	if !list[0].NextPaymentDate.Equal(wantNext) {
		t.Errorf("next payment = %v, want %v", list[0].NextPaymentDate, wantNext)
	}

	txs := eng.Transactions()
	if len(txs) != 1 || txs[0].Description != "installment payment: laptop (1/3)" {
		t.Fatalf("ledger entries = %+v", txs)
	}
}

func TestPayInstallmentAlreadyComplete(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	inst := addInstallment(t, eng, 200, 2, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		if _, err := eng.PayInstallment(inst.ID); err != nil {
			t.Fatalf("pay %d: %v", i, err)
		}
	}
	if _, err := eng.PayInstallment(inst.ID); !errors.Is(err, core.ErrAlreadyComplete) {
		t.Errorf("err = %v, want ErrAlreadyComplete", err)
	}
	if _, err := eng.PayInstallment(424242); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPayAndToggleDateStrategiesDiverge(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Toggle a later period first, then pay: the scan-based path and the
	// increment-based path produce different next payment dates from the
	// same bitmap state.
	engToggle, _, _ := newTestEngine(t, Config{})
	instA := addInstallment(t, engToggle, 1200, 12, start)
	if _, err := engToggle.ToggleInstallmentMonth(instA.ID, 5); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	// Scan finds period 0 unpaid: the date stays at start.
	if got := engToggle.Installments()[0].NextPaymentDate; !got.Equal(start) {
		t.Fatalf("scan-based next payment = %v, want %v", got, start)
	}

	engPay, _, _ := newTestEngine(t, Config{})
	instB := addInstallment(t, engPay, 1200, 12, start)
	if _, err := engPay.ToggleInstallmentMonth(instB.ID, 5); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := engPay.PayInstallment(instB.ID); err != nil {
		t.Fatalf("pay: %v", err)
	}
	// Increment-based: one month past whatever the date was before.
	if got, want := engPay.Installments()[0].NextPaymentDate, start.AddDate(0, 1, 0); !got.Equal(want) {
		t.Errorf("increment-based next payment = %v, want %v", got, want)
	}
}

func TestResizeGrowAppendsUnpaid(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	inst := addInstallment(t, eng, 600, 6, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if _, err := eng.ToggleInstallmentMonth(inst.ID, 2); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	got, err := eng.ResizeInstallment(ResizeParams{
		ID: inst.ID, Title: "laptop", TotalAmount: 900, NewCount: 9, CategoryID: 11,
	})
	if err != nil {
		t.Fatalf("ResizeInstallment: %v", err)
	}
	if got.MonthlyAmount != 100 {
		t.Errorf("monthly = %v, want 100", got.MonthlyAmount)
	}
	if len(got.PaidMonths) != 9 || got.PaidCount != 1 || !got.PaidMonths[2] {
		t.Errorf("bitmap = %v count = %d, want paid flag preserved at index 2", got.PaidMonths, got.PaidCount)
	}
	for i := 6; i < 9; i++ {
		if got.PaidMonths[i] {
			t.Errorf("grown period %d not unpaid", i)
		}
	}
}

func TestResizeShrinkDropsPaidWithoutReversal(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	inst := addInstallment(t, eng, 1200, 12, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	// Pay a period beyond the future truncation point.
	if _, err := eng.ToggleInstallmentMonth(inst.ID, 10); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	balanceBefore := eng.Balance()

	got, err := eng.ResizeInstallment(ResizeParams{
		ID: inst.ID, Title: "laptop", TotalAmount: 600, NewCount: 6, CategoryID: 11,
	})
	if err != nil {
		t.Fatalf("ResizeInstallment: %v", err)
	}
	if got.PaidCount != 0 || len(got.PaidMonths) != 6 {
		t.Errorf("expected dropped paid flag, got count=%d len=%d", got.PaidCount, len(got.PaidMonths))
	}
	// The dropped payment's ledger entry is not reversed.
	if eng.Balance() != balanceBefore {
		t.Errorf("balance changed from %v to %v on shrink", balanceBefore, eng.Balance())
	}
	if n := len(eng.Transactions()); n != 1 {
		t.Errorf("expected the payment entry to remain, got %d", n)
	}
}

func TestResizeShrinkWithStrictReversalRefundsDropped(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{StrictReversal: true})
	inst := addInstallment(t, eng, 1200, 12, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if _, err := eng.ToggleInstallmentMonth(inst.ID, 10); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if _, err := eng.ResizeInstallment(ResizeParams{
		ID: inst.ID, Title: "laptop", TotalAmount: 600, NewCount: 6, CategoryID: 11,
	}); err != nil {
		t.Fatalf("ResizeInstallment: %v", err)
	}

	if got := eng.Balance(); got != 0 {
		t.Errorf("balance = %v, want 0 after strict-reversal shrink", got)
	}
}

func TestResizeLeavesNextPaymentDateStale(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inst := addInstallment(t, eng, 1200, 12, start)
	if _, err := eng.ToggleInstallmentMonth(inst.ID, 0); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	got, err := eng.ResizeInstallment(ResizeParams{
		ID: inst.ID, Title: "laptop", TotalAmount: 400, NewCount: 4, CategoryID: 11,
	})
	if err != nil {
		t.Fatalf("ResizeInstallment: %v", err)
	}
	// Resize never touches the date; the toggle had moved it to February.
	if want := start.AddDate(0, 1, 0); !got.NextPaymentDate.Equal(want) {
		t.Errorf("next payment = %v, want untouched %v", got.NextPaymentDate, want)
	}
}

func TestResizeUnknownInstallment(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	if _, err := eng.ResizeInstallment(ResizeParams{ID: 424242, Title: "x", NewCount: 3}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteInstallmentKeepsLedgerEntries(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	inst := addInstallment(t, eng, 300, 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if _, err := eng.ToggleInstallmentMonth(inst.ID, 0); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := eng.DeleteInstallment(inst.ID); err != nil {
		t.Fatalf("DeleteInstallment: %v", err)
	}
	if n := len(eng.Installments()); n != 0 {
		t.Errorf("expected 0 installments, got %d", n)
	}
	if n := len(eng.Transactions()); n != 1 {
		t.Errorf("ledger entries cascaded: got %d, want 1", n)
	}
	// Unknown id: silent no-op.
	if err := eng.DeleteInstallment(424242); err != nil {
		t.Errorf("deleting unknown id should not error, got %v", err)
	}
}

func TestInstallmentsSortedByNextPaymentDate(t *testing.T) {
	eng, _, _ := newTestEngine(t, Config{})
	late := addInstallment(t, eng, 100, 1, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	early := addInstallment(t, eng, 100, 1, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	list := eng.Installments()
	if len(list) != 2 {
		t.Fatalf("expected 2 installments, got %d", len(list))
	}
	if list[0].ID != early.ID || list[1].ID != late.ID {
		t.Errorf("order = [%d %d], want [%d %d]", list[0].ID, list[1].ID, early.ID, late.ID)
	}
}
