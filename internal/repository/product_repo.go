package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Product, error)
	FindBySKU(tx *gorm.DB, tenantID, sku string) (*model.Product, error)
	FindLowStock(ctx context.Context, tenantID string) ([]model.Product, error)
	LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
	UpdateDetails(tx *gorm.DB, product *model.Product, updatedBy string) error
	UpdateCost(tx *gorm.DB, id uuid.UUID, purchasePrice decimal.Decimal, supplierID uuid.UUID, updatedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).Preload("Supplier").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(tx *gorm.DB, tenantID, sku string) (*model.Product, error) {
	var product model.Product
	if err := tx.Scopes(Tenant(tenantID)).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(ctx context.Context, tenantID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).
		Where("type = ? AND stock_quantity <= low_stock_threshold", model.ProductTypeProduct).
		Order("stock_quantity ASC, sku ASC").
		Find(&products).Error
	return products, err
}

// LockByID membaca product dengan FOR UPDATE; wajib dipanggil di dalam transaksi
func (r *productRepo) LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := forUpdate(tx).Scopes(Tenant(tenantID)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateStock menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": newStock,
			"updated_by":     updatedBy,
		}).Error
}

// UpdateDetails writes the editable catalog fields; stock_quantity is left to UpdateStock
func (r *productRepo) UpdateDetails(tx *gorm.DB, product *model.Product, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":                product.Name,
			"description":         product.Description,
			"unit":                product.Unit,
			"price":               product.Price,
			"purchase_price":      product.PurchasePrice,
			"low_stock_threshold": product.LowStockThreshold,
			"updated_by":          updatedBy,
		}).Error
}

// UpdateCost records the latest purchase cost and the supplier it came from
func (r *productRepo) UpdateCost(tx *gorm.DB, id uuid.UUID, purchasePrice decimal.Decimal, supplierID uuid.UUID, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"purchase_price": purchasePrice,
			"supplier_id":    supplierID,
			"updated_by":     updatedBy,
		}).Error
}
