package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

// StockMovement is the append-only audit row for a single stock change.
// Quantity is always the magnitude; direction comes from Type (and the snapshots).
type StockMovement struct {
	AuditRecord
	// Seq breaks created_at ties so rows from one transaction keep insertion order
	Seq           int64        `gorm:"autoIncrement;not null;index" json:"seq"`
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product     `json:"product,omitempty"` // Relasi
	Type          MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity      int          `gorm:"not null;check:quantity >= 0" json:"quantity"`
	PreviousStock int          `gorm:"not null" json:"previous_stock"`
	NewStock      int          `gorm:"not null" json:"new_stock"`
	Reason        string       `gorm:"type:varchar(255)" json:"reason"`
	Reference     string       `gorm:"type:varchar(100);index" json:"reference,omitempty"` // order / purchase number
}
