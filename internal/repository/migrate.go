package repository

import (
	"fmt"

	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

// Composite uniqueness that gorm tags cannot express on the embedded BaseModel.
// Partial on deleted_at so a soft-deleted row frees its number / SKU.
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_products_tenant_sku
		ON products (tenant_id, sku) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_tenant_number
		ON orders (tenant_id, order_number) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_purchases_tenant_number
		ON purchases (tenant_id, purchase_number) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_idempotency_keys
		ON idempotency_keys (tenant_id, operation, key)`,
	`CREATE INDEX IF NOT EXISTS ix_orders_fifo
		ON orders (tenant_id, customer_id, created_at, id) WHERE deleted_at IS NULL`,
}

// Migrate creates / updates every ledger table and its indexes
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range uniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
