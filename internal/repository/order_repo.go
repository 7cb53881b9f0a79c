package repository

import (
	"context"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerTotals is the receivable position of one customer recomputed from its orders
type CustomerTotals struct {
	CustomerID   uuid.UUID
	TotalDue     decimal.Decimal
	TotalPaid    decimal.Decimal
	InvoiceCount int
	UnpaidCount  int
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Order, error)
	Peek(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Order, error)
	LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Order, error)
	LockOpenByCustomer(tx *gorm.DB, tenantID string, customerID uuid.UUID) ([]model.Order, error)
	FindByCustomer(ctx context.Context, tenantID string, customerID uuid.UUID) ([]model.Order, error)
	CountByCustomer(tx *gorm.DB, tenantID string, customerID uuid.UUID) (int64, error)
	UpdatePayment(tx *gorm.DB, order *model.Order, updatedBy string) error
	SoftDelete(tx *gorm.DB, order *model.Order, deletedBy string) error
	CustomerTotals(ctx context.Context, tenantID string) ([]CustomerTotals, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create menyimpan order beserta items dalam satu statement group
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByID(ctx context.Context, tenantID string, id uuid.UUID) (*model.Order, error) {
	return r.Peek(r.db.WithContext(ctx), tenantID, id)
}

// Peek reads an order and its items without locking. Callers use it to learn
// which rows to lock before taking the order row itself.
func (r *orderRepo) Peek(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := tx.Scopes(Tenant(tenantID)).Preload("Items", orderedItems).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) LockByID(tx *gorm.DB, tenantID string, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := forUpdate(tx).Scopes(Tenant(tenantID)).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Items are immutable after creation, so they are read without a lock
	if err := tx.Where("order_id = ?", order.ID).Order("position ASC").Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LockOpenByCustomer locks every Unpaid/Partial invoice of a customer, oldest first
func (r *orderRepo) LockOpenByCustomer(tx *gorm.DB, tenantID string, customerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := forUpdate(tx).Scopes(Tenant(tenantID)).
		Where("customer_id = ? AND payment_status IN ?", customerID,
			[]model.PaymentStatus{model.PaymentUnpaid, model.PaymentPartial}).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByCustomer(ctx context.Context, tenantID string, customerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Scopes(Tenant(tenantID)).
		Preload("Items", orderedItems).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountByCustomer(tx *gorm.DB, tenantID string, customerID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Order{}).Scopes(Tenant(tenantID)).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *orderRepo) UpdatePayment(tx *gorm.DB, order *model.Order, updatedBy string) error {
	return tx.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"paid_amount":    order.PaidAmount,
			"due_amount":     order.DueAmount,
			"payment_status": order.PaymentStatus,
			"updated_by":     updatedBy,
		}).Error
}

func (r *orderRepo) SoftDelete(tx *gorm.DB, order *model.Order, deletedBy string) error {
	if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Order{}, "id = ?", order.ID).Error
}

func (r *orderRepo) CustomerTotals(ctx context.Context, tenantID string) ([]CustomerTotals, error) {
	var totals []CustomerTotals
	err := r.db.WithContext(ctx).Model(&model.Order{}).Scopes(Tenant(tenantID)).
		Select(`customer_id,
			COALESCE(SUM(due_amount), 0) AS total_due,
			COALESCE(SUM(paid_amount), 0) AS total_paid,
			COUNT(*) AS invoice_count,
			COUNT(*) FILTER (WHERE payment_status IN ('Unpaid', 'Partial')) AS unpaid_count`).
		Where("customer_id IS NOT NULL").
		Group("customer_id").
		Scan(&totals).Error
	return totals, err
}
