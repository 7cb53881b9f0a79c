package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(tx *gorm.DB, customer *model.Customer) error
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Customer, error)
	FindAll(ctx context.Context, tenantID string) ([]model.Customer, error)
	LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Customer, error)
	SaveAggregates(tx *gorm.DB, customer *model.Customer, updatedBy string) error
	SoftDelete(tx *gorm.DB, customer *model.Customer, deletedBy string) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(tx *gorm.DB, customer *model.Customer) error {
	return tx.Create(customer).Error
}

func (r *customerRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindAll(ctx context.Context, tenantID string) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := forUpdate(tx).Scopes(Tenant(tenantID)).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// SaveAggregates writes the four receivable aggregates of a locked customer
func (r *customerRepo) SaveAggregates(tx *gorm.DB, customer *model.Customer, updatedBy string) error {
	return tx.Model(&model.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"total_due":            customer.TotalDue,
			"total_paid":           customer.TotalPaid,
			"invoice_count":        customer.InvoiceCount,
			"unpaid_invoice_count": customer.UnpaidInvoiceCount,
			"updated_by":           updatedBy,
		}).Error
}

func (r *customerRepo) SoftDelete(tx *gorm.DB, customer *model.Customer, deletedBy string) error {
	if err := tx.Model(customer).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(customer).Error
}
