package service

import (
	"go-inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
)

type orderTotals struct {
	SubTotal decimal.Decimal
	Total    decimal.Decimal
	Paid     decimal.Decimal
	Due      decimal.Decimal
	Status   model.PaymentStatus
}

// lineSubTotal is unit price times quantity
func lineSubTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// computeOrderTotals derives every amount of an order from its lines.
// requestedPaid nil means "paid in full"; paid is capped at the total.
func computeOrderTotals(items []OrderItemInput, discount, tax decimal.Decimal, requestedPaid *decimal.Decimal) orderTotals {
	var t orderTotals
	for _, item := range items {
		t.SubTotal = t.SubTotal.Add(lineSubTotal(item.UnitPrice, item.Quantity))
	}
	t.Total = decimal.Max(decimal.Zero, t.SubTotal.Sub(discount).Add(tax))

	t.Paid = t.Total
	if requestedPaid != nil {
		t.Paid = decimal.Min(*requestedPaid, t.Total)
	}
	t.Due = model.DueOf(t.Total, t.Paid)
	t.Status = model.DerivePaymentStatus(t.Paid, t.Due)
	return t
}

type purchaseTotals struct {
	Total  decimal.Decimal
	Paid   decimal.Decimal
	Due    decimal.Decimal
	Status model.PaymentStatus
}

func computePurchaseTotals(items []PurchaseItemInput, paid decimal.Decimal) purchaseTotals {
	var t purchaseTotals
	for _, item := range items {
		t.Total = t.Total.Add(lineSubTotal(item.PurchasePrice, item.Quantity))
	}
	t.Paid = paid
	t.Due = model.DueOf(t.Total, paid)
	t.Status = model.DerivePaymentStatus(t.Paid, t.Due)
	return t
}
