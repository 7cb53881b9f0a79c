package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(tx *gorm.DB, supplier *model.Supplier) error
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Supplier, error)
	FindAll(ctx context.Context, tenantID string) ([]model.Supplier, error)
	Exists(tx *gorm.DB, tenantID string, id uuid.UUID) (bool, error)
	LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Supplier, error)
	UpdateDue(tx *gorm.DB, id uuid.UUID, due decimal.Decimal, updatedBy string) error
	SoftDelete(tx *gorm.DB, supplier *model.Supplier, deletedBy string) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(tx *gorm.DB, supplier *model.Supplier) error {
	return tx.Create(supplier).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindAll(ctx context.Context, tenantID string) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Exists(tx *gorm.DB, tenantID string, id uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.Supplier{}).Scopes(Tenant(tenantID)).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *supplierRepo) LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := forUpdate(tx).Scopes(Tenant(tenantID)).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) UpdateDue(tx *gorm.DB, id uuid.UUID, due decimal.Decimal, updatedBy string) error {
	return tx.Model(&model.Supplier{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"due_amount": due,
			"updated_by": updatedBy,
		}).Error
}

func (r *supplierRepo) SoftDelete(tx *gorm.DB, supplier *model.Supplier, deletedBy string) error {
	if err := tx.Model(supplier).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(supplier).Error
}
