package service

import (
	"go-inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// The functions below are the only place customer aggregates change. Each is
// applied to a customer row locked in the same transaction as the invoice change,
// then written with CustomerRepository.SaveAggregates.

// invoiceOpened books a new invoice
func invoiceOpened(c *model.Customer, paid, due decimal.Decimal) {
	c.InvoiceCount++
	c.TotalPaid = c.TotalPaid.Add(paid)
	if due.IsPositive() {
		c.TotalDue = c.TotalDue.Add(due)
		c.UnpaidInvoiceCount++
	}
}

// invoiceRemoved takes an invoice back out, using its state at deletion time
// so that payments collected after creation are reversed too.
func invoiceRemoved(c *model.Customer, o *model.Order) {
	c.InvoiceCount--
	c.TotalPaid = c.TotalPaid.Sub(o.PaidAmount)
	if o.DueAmount.IsPositive() {
		c.TotalDue = c.TotalDue.Sub(o.DueAmount)
	}
	if o.PaymentStatus.IsOpen() {
		c.UnpaidInvoiceCount--
	}
}

// paymentReceived moves amount from due to paid; paidOff invoices left the unpaid set
func paymentReceived(c *model.Customer, amount decimal.Decimal, paidOff int) {
	c.TotalDue = c.TotalDue.Sub(amount)
	c.TotalPaid = c.TotalPaid.Add(amount)
	c.UnpaidInvoiceCount -= paidOff
}

// payInvoice applies amount to one invoice and reports whether it became fully paid
func payInvoice(o *model.Order, amount decimal.Decimal) (paidOff bool) {
	wasOpen := o.PaymentStatus.IsOpen()
	o.PaidAmount = o.PaidAmount.Add(amount)
	o.DueAmount = model.DueOf(o.TotalAmount, o.PaidAmount)
	o.PaymentStatus = model.DerivePaymentStatus(o.PaidAmount, o.DueAmount)
	return wasOpen && !o.PaymentStatus.IsOpen()
}
