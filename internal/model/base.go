package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID), tenant scoping and standard Audit Trails
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	TenantID  string         `gorm:"type:varchar(255);not null;index" json:"tenant_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"` // Soft Delete support

	// Audit User Tracking
	CreatedBy string `json:"created_by"`
	UpdatedBy string `json:"updated_by"`
	DeletedBy string `json:"deleted_by"`
}

// Hook Before Create untuk generate UUID otomatis
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// AuditRecord is the base of append-only records (stock movements, payments).
// No UpdatedAt, no soft delete: once written, the row never changes.
type AuditRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	TenantID  string    `gorm:"type:varchar(255);not null;index" json:"tenant_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

func (a *AuditRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// AllModels lists every table owned by the ledger, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Supplier{},
		&Product{},
		&StockMovement{},
		&Customer{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&PaymentAllocation{},
		&Purchase{},
		&PurchaseItem{},
		&IdempotencyKey{},
	}
}
