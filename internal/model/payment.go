package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AllocationType string

const (
	AllocationSpecificInvoice AllocationType = "specific_invoice"
	AllocationCustomerTotal   AllocationType = "customer_total"
)

// Payment is an append-only receipt; Allocations describe exactly where the money went.
type Payment struct {
	AuditRecord
	CustomerID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"customer_id"`
	SaleID         *uuid.UUID          `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	Amount         decimal.Decimal     `gorm:"type:decimal(20,4);not null;check:amount > 0" json:"amount"`
	Method         PaymentMethod       `gorm:"type:varchar(20);not null" json:"method"`
	Note           string              `gorm:"type:text" json:"note,omitempty"`
	AllocationType AllocationType      `gorm:"type:varchar(20);not null" json:"allocation_type"`
	Allocations    []PaymentAllocation `gorm:"constraint:OnDelete:RESTRICT" json:"allocation_details"`
}

type PaymentAllocation struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"-"`
	PaymentID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position      int             `gorm:"not null" json:"-"`
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null" json:"invoice_number"`
}

func (a *PaymentAllocation) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
