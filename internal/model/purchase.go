package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "Pending"
	PurchaseCompleted PurchaseStatus = "Completed"
	PurchaseCancelled PurchaseStatus = "Cancelled"
)

// Purchase is a supplier restock order. Only Completed purchases move stock
// and supplier payables; Pending and Cancelled rows are inert.
type Purchase struct {
	BaseModel
	PurchaseNumber string         `gorm:"type:varchar(50);not null;index" json:"purchase_number"`
	SupplierID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier       *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items          []PurchaseItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"paid_amount"`
	DueAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"due_amount"`
	Status        PurchaseStatus  `gorm:"type:varchar(10);not null;default:'Completed'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(10);not null" json:"payment_status"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
}

type PurchaseItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	Position      int             `gorm:"not null" json:"position"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name          string          `gorm:"type:varchar(255)" json:"name"`
	SKU           string          `gorm:"type:varchar(50)" json:"sku,omitempty"`
	Quantity      int             `gorm:"not null;check:quantity >= 1" json:"quantity"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"purchase_price"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"sub_total"`
}

func (p *Purchase) IsCompleted() bool {
	return p.Status == PurchaseCompleted
}

func (i *PurchaseItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
