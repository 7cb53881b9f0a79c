package service

import (
	"go-inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// payableAdded raises what is owed to a supplier. It reports false when there is nothing to book.
func payableAdded(s *model.Supplier, due decimal.Decimal) bool {
	if !due.IsPositive() {
		return false
	}
	s.DueAmount = s.DueAmount.Add(due)
	return true
}

// payableReversed lowers what is owed, never below zero
func payableReversed(s *model.Supplier, due decimal.Decimal) bool {
	if !due.IsPositive() {
		return false
	}
	s.DueAmount = decimal.Max(decimal.Zero, s.DueAmount.Sub(due))
	return true
}
