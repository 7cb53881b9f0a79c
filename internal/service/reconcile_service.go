package service

import (
	"context"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerDrift compares a customer's stored aggregates with the ones recomputed from its orders
type CustomerDrift struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`

	StoredDue      decimal.Decimal `json:"stored_due"`
	ComputedDue    decimal.Decimal `json:"computed_due"`
	StoredPaid     decimal.Decimal `json:"stored_paid"`
	ComputedPaid   decimal.Decimal `json:"computed_paid"`
	StoredCount    int             `json:"stored_invoice_count"`
	ComputedCount  int             `json:"computed_invoice_count"`
	StoredUnpaid   int             `json:"stored_unpaid_count"`
	ComputedUnpaid int             `json:"computed_unpaid_count"`
}

type SupplierDrift struct {
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Name        string          `json:"name"`
	StoredDue   decimal.Decimal `json:"stored_due"`
	ComputedDue decimal.Decimal `json:"computed_due"`
}

// ReconcileService recomputes the denormalized aggregates and reports where they
// disagree with the stored values. It never writes.
type ReconcileService interface {
	ReconcileCustomers(ctx context.Context, tenantID string) ([]CustomerDrift, error)
	ReconcileSuppliers(ctx context.Context, tenantID string) ([]SupplierDrift, error)
}

type reconcileService struct {
	*engine
}

func NewReconcileService(d Deps) ReconcileService {
	return &reconcileService{newEngine(d)}
}

func customerDrift(c model.Customer, t repository.CustomerTotals) (CustomerDrift, bool) {
	d := CustomerDrift{
		CustomerID:     c.ID,
		Name:           c.Name,
		StoredDue:      c.TotalDue,
		ComputedDue:    t.TotalDue,
		StoredPaid:     c.TotalPaid,
		ComputedPaid:   t.TotalPaid,
		StoredCount:    c.InvoiceCount,
		ComputedCount:  t.InvoiceCount,
		StoredUnpaid:   c.UnpaidInvoiceCount,
		ComputedUnpaid: t.UnpaidCount,
	}
	drifted := !d.StoredDue.Equal(d.ComputedDue) ||
		!d.StoredPaid.Equal(d.ComputedPaid) ||
		d.StoredCount != d.ComputedCount ||
		d.StoredUnpaid != d.ComputedUnpaid
	return d, drifted
}

func (s *reconcileService) ReconcileCustomers(ctx context.Context, tenantID string) ([]CustomerDrift, error) {
	customers, err := s.repos.Customers.FindAll(ctx, tenantID)
	if err != nil {
		return nil, translateDBError(err)
	}
	totals, err := s.repos.Orders.CustomerTotals(ctx, tenantID)
	if err != nil {
		return nil, translateDBError(err)
	}
	byCustomer := make(map[uuid.UUID]repository.CustomerTotals, len(totals))
	for _, t := range totals {
		byCustomer[t.CustomerID] = t
	}

	var drifts []CustomerDrift
	for _, c := range customers {
		if d, drifted := customerDrift(c, byCustomer[c.ID]); drifted {
			drifts = append(drifts, d)
			s.log.Warn("customer aggregates drifted",
				zap.String("tenant_id", tenantID),
				zap.String("customer_id", c.ID.String()),
				zap.String("stored_due", d.StoredDue.String()),
				zap.String("computed_due", d.ComputedDue.String()),
				zap.Int("stored_unpaid", d.StoredUnpaid),
				zap.Int("computed_unpaid", d.ComputedUnpaid))
		}
	}
	s.metrics.SetDrifts("customers", len(drifts))
	s.log.Info("customers reconciled", zap.String("tenant_id", tenantID),
		zap.Int("checked", len(customers)), zap.Int("drifted", len(drifts)))
	return drifts, nil
}

func (s *reconcileService) ReconcileSuppliers(ctx context.Context, tenantID string) ([]SupplierDrift, error) {
	suppliers, err := s.repos.Suppliers.FindAll(ctx, tenantID)
	if err != nil {
		return nil, translateDBError(err)
	}
	totals, err := s.repos.Purchases.SupplierTotals(ctx, tenantID)
	if err != nil {
		return nil, translateDBError(err)
	}
	bySupplier := make(map[uuid.UUID]decimal.Decimal, len(totals))
	for _, t := range totals {
		bySupplier[t.SupplierID] = t.DueAmount
	}

	var drifts []SupplierDrift
	for _, sup := range suppliers {
		computed := bySupplier[sup.ID]
		if sup.DueAmount.Equal(computed) {
			continue
		}
		drifts = append(drifts, SupplierDrift{
			SupplierID:  sup.ID,
			Name:        sup.Name,
			StoredDue:   sup.DueAmount,
			ComputedDue: computed,
		})
		s.log.Warn("supplier payable drifted",
			zap.String("tenant_id", tenantID),
			zap.String("supplier_id", sup.ID.String()),
			zap.String("stored_due", sup.DueAmount.String()),
			zap.String("computed_due", computed.String()))
	}
	s.metrics.SetDrifts("suppliers", len(drifts))
	s.log.Info("suppliers reconciled", zap.String("tenant_id", tenantID),
		zap.Int("checked", len(suppliers)), zap.Int("drifted", len(drifts)))
	return drifts, nil
}
