package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindByProduct(ctx context.Context, tenantID string, productID uuid.UUID) ([]model.StockMovement, error)
	FindByReference(ctx context.Context, tenantID, reference string) ([]model.StockMovement, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

// Movements are append-only; the repository has no Update or Delete.
func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) FindByProduct(ctx context.Context, tenantID string, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).
		Where("product_id = ?", productID).
		Order("created_at DESC, seq DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindByReference(ctx context.Context, tenantID, reference string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).
		Preload("Product").
		Where("reference = ?", reference).
		Order("created_at ASC, seq ASC").
		Find(&movements).Error
	return movements, err
}
