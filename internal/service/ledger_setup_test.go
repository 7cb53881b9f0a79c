package service_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/pkg/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// ledger bundles the services of one isolated tenant
type ledger struct {
	db        *gorm.DB
	actor     service.Actor
	catalog   service.CatalogService
	stock     service.StockService
	orders    service.OrderService
	payments  service.PaymentService
	purchases service.PurchaseService
	reconcile service.ReconcileService
}

// newLedger connects to TEST_DATABASE_URL and gives every test its own tenant,
// so tests never see each other's rows.
func newLedger(t *testing.T) *ledger {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run ledger integration tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	migrateOnce.Do(func() { migrateErr = repository.Migrate(db) })
	require.NoError(t, migrateErr)

	deps := service.Deps{
		DB:  db,
		Log: zaptest.NewLogger(t),
		Config: config.LedgerConfig{
			OrderPrefix:              "INV",
			PurchasePrefix:           "PO",
			DefaultLowStockThreshold: 5,
			OperationTimeout:         10 * time.Second,
		},
	}
	return &ledger{
		db:        db,
		actor:     service.Actor{TenantID: "t-" + uuid.NewString(), UserID: "u-test", Name: "Tester"},
		catalog:   service.NewCatalogService(deps),
		stock:     service.NewStockService(deps),
		orders:    service.NewOrderService(deps),
		payments:  service.NewPaymentService(deps),
		purchases: service.NewPurchaseService(deps),
		reconcile: service.NewReconcileService(deps),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (l *ledger) product(t *testing.T, sku, price string, stock int) *model.Product {
	t.Helper()
	p, err := l.catalog.CreateProduct(context.Background(), l.actor, service.ProductInput{
		SKU:          sku,
		Name:         "Product " + sku,
		Price:        dec(price),
		InitialStock: stock,
	})
	require.NoError(t, err)
	return p
}

func (l *ledger) customer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c, err := l.catalog.CreateCustomer(context.Background(), l.actor, service.CustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func (l *ledger) supplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	s, err := l.catalog.CreateSupplier(context.Background(), l.actor, service.SupplierInput{Name: name})
	require.NoError(t, err)
	return s
}

func (l *ledger) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := l.catalog.GetProduct(context.Background(), l.actor, id)
	require.NoError(t, err)
	return p.StockQuantity
}

// creditSale sells qty of p to customer c with nothing paid up front
func (l *ledger) creditSale(t *testing.T, c *model.Customer, p *model.Product, qty int) *model.Order {
	t.Helper()
	o, err := l.orders.CreateOrder(context.Background(), l.actor, service.CreateOrderInput{
		CustomerID: &c.ID,
		Items:      []service.OrderItemInput{{ProductID: &p.ID, UnitPrice: p.Price, Quantity: qty}},
		PaidAmount: decPtr("0"),
	})
	require.NoError(t, err)
	return o
}
