package core

// TransactionView is a transaction enriched with the display metadata of
// its category (or the Uncategorized fallback).
type TransactionView struct {
	Transaction
	CategoryName  string `json:"category_name"`
	CategoryColor string `json:"category_color"`
	CategoryIcon  string `json:"category_icon"`
}

// InstallmentView is an installment enriched the same way.
type InstallmentView struct {
	Installment
	CategoryName  string `json:"category_name"`
	CategoryColor string `json:"category_color"`
	CategoryIcon  string `json:"category_icon"`
}

// CategoryTotal is one (category, flow direction) bucket of a monthly
// summary.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Icon  string  `json:"icon"`
	Kind  Kind    `json:"type"`
	Total float64 `json:"total"`
}

// MonthlySummary is a read-only projection over the transaction ledger
// for one calendar month.
type MonthlySummary struct {
	Year         int               `json:"year"`
	Month        int               `json:"month"` // 1-12
	Income       float64           `json:"income"`
	Expense      float64           `json:"expense"`
	Net          float64           `json:"net"`
	ByCategory   []CategoryTotal   `json:"byCategory"`
	Transactions []TransactionView `json:"transactions"`
}
