package model

import "github.com/shopspring/decimal"

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentUnpaid  PaymentStatus = "Unpaid"
)

type PaymentMethod string

const (
	MethodCash          PaymentMethod = "Cash"
	MethodCard          PaymentMethod = "Card"
	MethodMobileBanking PaymentMethod = "Mobile Banking"
	MethodOther         PaymentMethod = "Other"
)

// DerivePaymentStatus is shared by orders and purchases.
func DerivePaymentStatus(paid, due decimal.Decimal) PaymentStatus {
	switch {
	case !due.IsPositive():
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	default:
		return PaymentUnpaid
	}
}

// IsOpen reports whether an invoice still counts as unpaid for the customer.
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentUnpaid || s == PaymentPartial
}

// DueOf returns max(0, total - paid).
func DueOf(total, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, total.Sub(paid))
}
