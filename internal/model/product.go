package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypeProduct ProductType = "Product"
	ProductTypeService ProductType = "Service"
)

type Product struct {
	BaseModel
	Type              ProductType     `gorm:"type:varchar(20);not null;default:'Product'" json:"type"`
	SKU               string          `gorm:"type:varchar(50);not null;index" json:"sku"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	Unit              string          `gorm:"type:varchar(20)" json:"unit"`
	Price             decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"price"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"purchase_price"`
	StockQuantity     int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	LowStockThreshold int             `gorm:"not null" json:"low_stock_threshold"`

	// Relasi
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// TracksStock reports whether the product participates in the stock ledger.
func (p *Product) TracksStock() bool {
	return p.Type != ProductTypeService
}

// IsLowStock is true once stock has fallen to the configured threshold.
func (p *Product) IsLowStock() bool {
	return p.TracksStock() && p.StockQuantity <= p.LowStockThreshold
}
