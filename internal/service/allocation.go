package service

import (
	"go-inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// allocation is the share of a payment applied to invoices[Index]
type allocation struct {
	Index  int
	Amount decimal.Decimal
}

// allocateFIFO spreads amount over invoices in the given order (oldest first).
// Invoices with nothing due are skipped. remaining is what could not be placed.
func allocateFIFO(invoices []model.Order, amount decimal.Decimal) (allocs []allocation, paidOff int, remaining decimal.Decimal) {
	remaining = amount
	for i := range invoices {
		if !remaining.IsPositive() {
			break
		}
		due := invoices[i].DueAmount
		if !due.IsPositive() {
			continue
		}
		take := decimal.Min(due, remaining)
		allocs = append(allocs, allocation{Index: i, Amount: take})
		remaining = remaining.Sub(take)
		if take.Equal(due) {
			paidOff++
		}
	}
	return allocs, paidOff, remaining
}

// outstanding sums the due of the given invoices
func outstanding(invoices []model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.DueAmount)
	}
	return total
}
