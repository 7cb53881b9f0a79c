package model

import "github.com/shopspring/decimal"

// Customer carries denormalized receivable aggregates. They are written only by
// the order and payment engines, inside the same transaction as the invoice change.
type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null;index" json:"name"`
	Phone   string `gorm:"type:varchar(30);index" json:"phone,omitempty"`
	Email   string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`

	TotalDue           decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;check:total_due >= 0" json:"total_due"`
	TotalPaid          decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;check:total_paid >= 0" json:"total_paid"`
	InvoiceCount       int             `gorm:"not null;default:0;check:invoice_count >= 0" json:"invoice_count"`
	UnpaidInvoiceCount int             `gorm:"not null;default:0;check:unpaid_invoice_count >= 0" json:"unpaid_invoice_count"`
}
