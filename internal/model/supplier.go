package model

import "github.com/shopspring/decimal"

type Supplier struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	CompanyName string `gorm:"type:varchar(255)" json:"company_name,omitempty"`
	Phone       string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email       string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address     string `gorm:"type:text" json:"address,omitempty"`

	// Payable owed to this supplier; moved only by purchase completion/reversal
	DueAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0;check:due_amount >= 0" json:"due_amount"`
}
