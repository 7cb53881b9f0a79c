package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a sale / invoice.
type Order struct {
	BaseModel
	OrderNumber   string     `gorm:"type:varchar(50);not null;index" json:"order_number"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index:idx_orders_customer_status" json:"customer_id,omitempty"`
	Customer      *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName  string     `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	CustomerPhone string     `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	SubTotal       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"sub_total"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"paid_amount"`
	DueAmount      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;check:due_amount >= 0" json:"due_amount"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null;default:'Cash'" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;index:idx_orders_customer_status" json:"payment_status"`
}

type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Position int       `gorm:"not null" json:"position"`

	// Custom items (service / ad-hoc charge) have no product link and skip stock
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	IsCustom  bool       `gorm:"not null;default:false" json:"is_custom"`

	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU           string          `gorm:"type:varchar(50)" json:"sku,omitempty"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"purchase_price"`
	Quantity      int             `gorm:"not null;check:quantity >= 1" json:"quantity"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"sub_total"`
}

// StockLinked reports whether the line moves inventory when the order is created or deleted.
// Lines pointing at Service products are stock-linked here and filtered later by product type.
func (i *OrderItem) StockLinked() bool {
	return !i.IsCustom && i.ProductID != nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
