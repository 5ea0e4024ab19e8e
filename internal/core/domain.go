package core

import (
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// Display fallback for entities that reference a deleted category.
const (
	FallbackCategoryName  = "Uncategorized"
	FallbackCategoryColor = "#64748b"
	FallbackCategoryIcon  = "📦"
)

type (
	// Kind is the flow direction of a money movement.
	Kind string

	Category struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Kind  Kind   `json:"type"`
		Color string `json:"color"`
		Icon  string `json:"icon"`
	}

	Transaction struct {
		ID          int64     `json:"id"`
		Kind        Kind      `json:"type"`
		Amount      float64   `json:"amount"`
		CategoryID  int64     `json:"category_id"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
	}

	// Installment amortizes TotalAmount over InstallmentCount monthly
	// periods. PaidMonths is the source of truth for payment status;
	// PaidCount and NextPaymentDate are derived from it.
	Installment struct {
		ID               int64     `json:"id"`
		Title            string    `json:"title"`
		TotalAmount      float64   `json:"total_amount"`
		InstallmentCount int       `json:"installment_count"`
		PaidCount        int       `json:"paid_count"`
		PaidMonths       []bool    `json:"paid_months"`
		MonthlyAmount    float64   `json:"monthly_amount"`
		StartDate        time.Time `json:"start_date"`
		NextPaymentDate  time.Time `json:"next_payment_date"`
		CategoryID       int64     `json:"category_id"`
		Description      string    `json:"description"`
		CreatedAt        time.Time `json:"created_at"`
	}

	Note struct {
		ID         int64      `json:"id"`
		Title      string     `json:"title"`
		Content    string     `json:"content"`
		Importance int        `json:"importance"`
		AlarmTime  *time.Time `json:"alarm_time"`
		CreatedAt  time.Time  `json:"created_at"`
		UpdatedAt  time.Time  `json:"updated_at"`
	}

	// Document is the single persisted object holding all application
	// state. Balance is derived from the transactions but stored, and can
	// be overridden independently of them.
	Document struct {
		Notes        []Note        `json:"notes"`
		Transactions []Transaction `json:"transactions"`
		Installments []Installment `json:"installments"`
		Categories   []Category    `json:"categories"`
		Balance      float64       `json:"balance"`
		NextID       int64         `json:"nextId"`
	}
)

// IsValid reports whether k is one of the two known flow directions.
func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// SeedNextID leaves ids below 100 free for seed data.
const SeedNextID = 100

// NewDocument returns the default document: the fixed category seed,
// zero balance, and the id counter above the seed range.
func NewDocument() *Document {
	return &Document{
		Notes:        []Note{},
		Transactions: []Transaction{},
		Installments: []Installment{},
		Categories: []Category{
			{ID: 1, Name: "Salary", Kind: Income, Color: "#10b981", Icon: "💰"},
			{ID: 2, Name: "Side Income", Kind: Income, Color: "#22c55e", Icon: "💵"},
			{ID: 3, Name: "Investment Income", Kind: Income, Color: "#14b8a6", Icon: "📈"},
			{ID: 4, Name: "Groceries", Kind: Expense, Color: "#f43f5e", Icon: "🛒"},
			{ID: 5, Name: "Rent", Kind: Expense, Color: "#ef4444", Icon: "🏠"},
			{ID: 6, Name: "Bills", Kind: Expense, Color: "#f97316", Icon: "📄"},
			{ID: 7, Name: "Transport", Kind: Expense, Color: "#eab308", Icon: "🚗"},
			{ID: 8, Name: "Health", Kind: Expense, Color: "#ec4899", Icon: "🏥"},
			{ID: 9, Name: "Entertainment", Kind: Expense, Color: "#8b5cf6", Icon: "🎬"},
			{ID: 10, Name: "Clothing", Kind: Expense, Color: "#a855f7", Icon: "👕"},
			{ID: 11, Name: "Technology", Kind: Expense, Color: "#6366f1", Icon: "💻"},
			{ID: 12, Name: "Other", Kind: Expense, Color: "#64748b", Icon: "📦"},
		},
		Balance: 0,
		NextID:  SeedNextID,
	}
}

// Normalize repairs a document loaded from storage: nil slices become
// empty, the id counter never falls below the seed floor, and every
// installment's paid bitmap is brought to the length its count promises
// (zero-extending or truncating) with the paid count recomputed.
func (d *Document) Normalize() {
	if d.Notes == nil {
		d.Notes = []Note{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.Installments == nil {
		d.Installments = []Installment{}
	}
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.NextID < SeedNextID {
		d.NextID = SeedNextID
	}
	for i := range d.Installments {
		inst := &d.Installments[i]
		if inst.InstallmentCount < 1 {
			inst.InstallmentCount = 1
		}
		inst.PaidMonths = ResizeBitmap(inst.PaidMonths, inst.InstallmentCount)
		inst.PaidCount = CountPaid(inst.PaidMonths)
	}
}

// ResizeBitmap grows a paid bitmap with unpaid periods or truncates it
// from the end, preserving existing flags for indices that survive.
func ResizeBitmap(bits []bool, n int) []bool {
	if len(bits) == n {
		if bits == nil {
			return []bool{}
		}
		return bits
	}
	out := make([]bool, n)
	copy(out, bits)
	return out
}

// CountPaid returns the number of paid periods in a bitmap.
func CountPaid(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}

// CategoryByID resolves a category reference. The second return is false
// for dangling references; callers fall back to the Uncategorized display
// values, never an error.
func (d *Document) CategoryByID(id int64) (Category, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.IsValid() {
		return ErrInvalidKind
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (i Installment) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if i.InstallmentCount < 1 {
		return ErrInvalidCount
	}
	if i.TotalAmount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if n.Importance < 1 || n.Importance > 4 {
		return ErrInvalidImportance
	}
	return nil
}
