package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierTotals is the payable of one supplier recomputed from its completed purchases
type SupplierTotals struct {
	SupplierID uuid.UUID
	DueAmount  decimal.Decimal
}

type PurchaseRepository interface {
	Create(tx *gorm.DB, purchase *model.Purchase) error
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Purchase, error)
	Peek(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Purchase, error)
	LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Purchase, error)
	Update(tx *gorm.DB, purchase *model.Purchase, updatedBy string) error
	SoftDelete(tx *gorm.DB, purchase *model.Purchase, deletedBy string) error
	CountBySupplier(tx *gorm.DB, tenantID string, supplierID uuid.UUID) (int64, error)
	SupplierTotals(ctx context.Context, tenantID string) ([]SupplierTotals, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(tx *gorm.DB, purchase *model.Purchase) error {
	return tx.Create(purchase).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).
		Preload("Items", orderedItems).
		Preload("Supplier").
		First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) Peek(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := tx.Scopes(Tenant(tenantID)).Preload("Items", orderedItems).First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := forUpdate(tx).Scopes(Tenant(tenantID)).First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("purchase_id = ?", purchase.ID).Order("position ASC").Find(&purchase.Items).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Update rewrites the header columns and replaces the item rows
func (r *purchaseRepo) Update(tx *gorm.DB, purchase *model.Purchase, updatedBy string) error {
	err := tx.Model(&model.Purchase{}).
		Where("id = ?", purchase.ID).
		Updates(map[string]interface{}{
			"purchase_number": purchase.PurchaseNumber,
			"supplier_id":     purchase.SupplierID,
			"total_amount":    purchase.TotalAmount,
			"paid_amount":     purchase.PaidAmount,
			"due_amount":      purchase.DueAmount,
			"status":          purchase.Status,
			"payment_status":  purchase.PaymentStatus,
			"notes":           purchase.Notes,
			"updated_by":      updatedBy,
		}).Error
	if err != nil {
		return err
	}

	if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&model.PurchaseItem{}).Error; err != nil {
		return err
	}
	for i := range purchase.Items {
		purchase.Items[i].ID = uuid.Nil
		purchase.Items[i].PurchaseID = purchase.ID
	}
	if len(purchase.Items) == 0 {
		return nil
	}
	return tx.Create(&purchase.Items).Error
}

func (r *purchaseRepo) SoftDelete(tx *gorm.DB, purchase *model.Purchase, deletedBy string) error {
	if err := tx.Model(&model.Purchase{}).Where("id = ?", purchase.ID).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Purchase{}, "id = ?", purchase.ID).Error
}

func (r *purchaseRepo) CountBySupplier(tx *gorm.DB, tenantID string, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Purchase{}).Scopes(Tenant(tenantID)).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}

func (r *purchaseRepo) SupplierTotals(ctx context.Context, tenantID string) ([]SupplierTotals, error) {
	var totals []SupplierTotals
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).Scopes(Tenant(tenantID)).
		Select("supplier_id, COALESCE(SUM(due_amount), 0) AS due_amount").
		Where("status = ?", model.PurchaseCompleted).
		Group("supplier_id").
		Scan(&totals).Error
	return totals, err
}
