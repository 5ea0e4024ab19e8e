package core

import "errors"

// Expected business conditions surface as these sentinels; only storage
// failures propagate as wrapped hard errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidIndex    = errors.New("month index out of range")
	ErrAlreadyComplete = errors.New("all installments already paid")

	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid transaction type")
	ErrInvalidCount      = errors.New("installment count must be at least 1")
	ErrEmptyTitle        = errors.New("empty title")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidImportance = errors.New("importance must be between 1 and 4")
)
