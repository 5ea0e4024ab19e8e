// Package core holds the domain model of the ledger: categories,
// transactions, installments, notes, and the persisted document that
// contains them all.
//
// This file contains amount parsing and formatting helpers. Amounts are
// plain float64 values: installment amortization divides a total over a
// period count and the per-month value must not be rounded, and the
// persisted document stores amounts as JSON numbers.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for empty input, signed input, or anything
// that is not a finite non-negative number.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only unsigned values allowed
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders an amount with two decimals and a comma separator
// for display, e.g. 1234.5 -> "₺1234,50".
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(math.Round(v * 100))
	whole := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(whole, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-₺" + s
	}
	return "₺" + s
}
