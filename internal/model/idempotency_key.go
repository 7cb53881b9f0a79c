package model

import "time"

// IdempotencyKey records that a client-supplied request key has already been
// applied for an operation. Unique on (tenant_id, operation, key); see repository migration.
type IdempotencyKey struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    string    `gorm:"type:varchar(255);not null" json:"tenant_id"`
	Operation   string    `gorm:"type:varchar(50);not null" json:"operation"`
	Key         string    `gorm:"type:varchar(255);not null" json:"key"`
	ReferenceID string    `gorm:"type:varchar(100)" json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
}
