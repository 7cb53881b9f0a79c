package service_test

import (
	"context"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestUpdateProductBooksStockChangeAsAdjust(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 10)

	updated, err := l.catalog.UpdateProduct(ctx, l.actor, pen.ID, service.ProductUpdateInput{
		Name:          "Blue Pen",
		Price:         dec("12"),
		StockQuantity: intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Blue Pen", updated.Name)
	assert.Equal(t, 4, updated.StockQuantity)

	p, err := l.catalog.GetProduct(ctx, l.actor, pen.ID)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(dec("12")))
	assert.Equal(t, 4, p.StockQuantity)

	history, err := l.stock.StockHistory(ctx, l.actor, pen.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.MovementAdjust, history[0].Type)
	assert.Equal(t, 6, history[0].Quantity)
	assert.Equal(t, 10, history[0].PreviousStock)
	assert.Equal(t, 4, history[0].NewStock)
	assert.Equal(t, "Direct adjustment from product edit", history[0].Reason)

	// no stock field, or the same stock, leaves the ledger alone
	_, err = l.catalog.UpdateProduct(ctx, l.actor, pen.ID, service.ProductUpdateInput{Name: "Blue Pen", Price: dec("12")})
	require.NoError(t, err)
	_, err = l.catalog.UpdateProduct(ctx, l.actor, pen.ID, service.ProductUpdateInput{Name: "Blue Pen", Price: dec("12"), StockQuantity: intPtr(4)})
	require.NoError(t, err)

	history, err = l.stock.StockHistory(ctx, l.actor, pen.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpdateProductRejects(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	repair, err := l.catalog.CreateProduct(ctx, l.actor, service.ProductInput{
		Type:  model.ProductTypeService,
		SKU:   "REPAIR",
		Name:  "Repair",
		Price: dec("50"),
	})
	require.NoError(t, err)

	_, err = l.catalog.UpdateProduct(ctx, l.actor, repair.ID, service.ProductUpdateInput{Name: "Quick Repair", StockQuantity: intPtr(3)})
	assert.ErrorIs(t, err, service.ErrNotStockTracked)

	// the rename rolled back with the failed adjustment
	p, err := l.catalog.GetProduct(ctx, l.actor, repair.ID)
	require.NoError(t, err)
	assert.Equal(t, "Repair", p.Name)

	_, err = l.catalog.UpdateProduct(ctx, l.actor, uuid.New(), service.ProductUpdateInput{Name: "Ghost"})
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	_, err = l.catalog.UpdateProduct(ctx, l.actor, repair.ID, service.ProductUpdateInput{})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestDeleteSupplierGuardsPurchaseHistory(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	paper := l.product(t, "PAPER", "9", 0)
	acme := l.supplier(t, "Acme")
	idle := l.supplier(t, "Idle")

	_, err := l.purchases.CreatePurchase(ctx, l.actor, service.PurchaseInput{
		SupplierID: acme.ID,
		Items:      []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 2, PurchasePrice: dec("4")}},
	})
	require.NoError(t, err)

	err = l.catalog.DeleteSupplier(ctx, l.actor, acme.ID)
	assert.ErrorIs(t, err, service.ErrSupplierHasPurchases)
	assert.Equal(t, service.ClassInvariant, service.Classify(err))
	_, err = l.catalog.GetSupplier(ctx, l.actor, acme.ID)
	assert.NoError(t, err)

	require.NoError(t, l.catalog.DeleteSupplier(ctx, l.actor, idle.ID))
	_, err = l.catalog.GetSupplier(ctx, l.actor, idle.ID)
	assert.ErrorIs(t, err, service.ErrSupplierNotFound)

	assert.ErrorIs(t, l.catalog.DeleteSupplier(ctx, l.actor, idle.ID), service.ErrSupplierNotFound)
}
