package service_test

import (
	"context"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseEditAndDelete(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	paper := l.product(t, "PAPER", "9", 0)
	acme := l.supplier(t, "Acme")

	purchase, err := l.purchases.CreatePurchase(ctx, l.actor, service.PurchaseInput{
		SupplierID:     acme.ID,
		PurchaseNumber: "PO-7",
		Items:          []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 10, PurchasePrice: dec("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseCompleted, purchase.Status)
	assert.True(t, purchase.TotalAmount.Equal(dec("40")))
	assert.Equal(t, model.PaymentUnpaid, purchase.PaymentStatus)
	assert.Equal(t, 10, l.stockOf(t, paper.ID))

	p, err := l.catalog.GetProduct(ctx, l.actor, paper.ID)
	require.NoError(t, err)
	assert.True(t, p.PurchasePrice.Equal(dec("4")))
	require.NotNil(t, p.SupplierID)
	assert.Equal(t, acme.ID, *p.SupplierID)

	s, err := l.catalog.GetSupplier(ctx, l.actor, acme.ID)
	require.NoError(t, err)
	assert.True(t, s.DueAmount.Equal(dec("40")))

	updated, err := l.purchases.UpdatePurchase(ctx, l.actor, purchase.ID, service.PurchaseInput{
		SupplierID: acme.ID,
		Items:      []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 8, PurchasePrice: dec("5")}},
		PaidAmount: dec("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-7", updated.PurchaseNumber)
	assert.Equal(t, model.PaymentPartial, updated.PaymentStatus)
	assert.Equal(t, 8, l.stockOf(t, paper.ID))

	s, err = l.catalog.GetSupplier(ctx, l.actor, acme.ID)
	require.NoError(t, err)
	assert.True(t, s.DueAmount.Equal(dec("30")))

	history, err := l.stock.StockHistory(ctx, l.actor, paper.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "Purchase Edit Restock [PO-7]", history[0].Reason)
	assert.Equal(t, 8, history[0].Quantity)
	assert.Equal(t, "Purchase Edit Reversal [PO-7]", history[1].Reason)
	assert.Equal(t, model.MovementOut, history[1].Type)
	assert.Equal(t, 10, history[1].Quantity)
	assert.Equal(t, "Purchase Restock [PO-7]", history[2].Reason)

	got, err := l.purchases.GetPurchase(ctx, l.actor, purchase.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 8, got.Items[0].Quantity)

	require.NoError(t, l.purchases.DeletePurchase(ctx, l.actor, purchase.ID))
	assert.Equal(t, 0, l.stockOf(t, paper.ID))

	s, err = l.catalog.GetSupplier(ctx, l.actor, acme.ID)
	require.NoError(t, err)
	assert.True(t, s.DueAmount.IsZero())

	_, err = l.purchases.GetPurchase(ctx, l.actor, purchase.ID)
	assert.ErrorIs(t, err, service.ErrPurchaseNotFound)
}

func TestPendingPurchaseDoesNotMoveStock(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	paper := l.product(t, "PAPER", "9", 3)
	acme := l.supplier(t, "Acme")

	purchase, err := l.purchases.CreatePurchase(ctx, l.actor, service.PurchaseInput{
		SupplierID: acme.ID,
		Status:     model.PurchasePending,
		Items:      []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 5, PurchasePrice: dec("4")}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^PO-\d{2}-`, purchase.PurchaseNumber)
	assert.Equal(t, 3, l.stockOf(t, paper.ID))

	s, err := l.catalog.GetSupplier(ctx, l.actor, acme.ID)
	require.NoError(t, err)
	assert.True(t, s.DueAmount.IsZero())

	// Completing it later books stock and payable once
	_, err = l.purchases.UpdatePurchase(ctx, l.actor, purchase.ID, service.PurchaseInput{
		SupplierID: acme.ID,
		Status:     model.PurchaseCompleted,
		Items:      []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 5, PurchasePrice: dec("4")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, l.stockOf(t, paper.ID))

	s, err = l.catalog.GetSupplier(ctx, l.actor, acme.ID)
	require.NoError(t, err)
	assert.True(t, s.DueAmount.Equal(dec("20")))
}

func TestDeletePurchaseClampsSoldUnits(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	paper := l.product(t, "PAPER", "9", 0)
	acme := l.supplier(t, "Acme")

	purchase, err := l.purchases.CreatePurchase(ctx, l.actor, service.PurchaseInput{
		SupplierID: acme.ID,
		Items:      []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 5, PurchasePrice: dec("4")}},
		PaidAmount: dec("20"),
	})
	require.NoError(t, err)

	_, err = l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{
		Items: []service.OrderItemInput{{ProductID: &paper.ID, UnitPrice: dec("9"), Quantity: 4}},
	})
	require.NoError(t, err)

	require.NoError(t, l.purchases.DeletePurchase(ctx, l.actor, purchase.ID))
	assert.Equal(t, 0, l.stockOf(t, paper.ID))

	history, err := l.stock.StockHistory(ctx, l.actor, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, "Purchase Deleted ["+purchase.PurchaseNumber+"]", history[0].Reason)
	assert.Equal(t, 1, history[0].Quantity)
}

func TestPurchaseUnknownSupplier(t *testing.T) {
	l := newLedger(t)
	paper := l.product(t, "PAPER", "9", 0)
	stranger := l.supplier(t, "Acme")
	stranger.ID[0] ^= 0xff

	_, err := l.purchases.CreatePurchase(context.Background(), l.actor, service.PurchaseInput{
		SupplierID: stranger.ID,
		Items:      []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 1, PurchasePrice: dec("1")}},
	})
	assert.ErrorIs(t, err, service.ErrSupplierNotFound)
	assert.Equal(t, 0, l.stockOf(t, paper.ID))
}

func TestDuplicatePurchaseNumberIsRejected(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	paper := l.product(t, "PAPER", "9", 0)
	acme := l.supplier(t, "Acme")

	input := service.PurchaseInput{
		SupplierID:     acme.ID,
		PurchaseNumber: "PO-7",
		Items:          []service.PurchaseItemInput{{ProductID: paper.ID, Quantity: 5, PurchasePrice: dec("4")}},
	}
	_, err := l.purchases.CreatePurchase(ctx, l.actor, input)
	require.NoError(t, err)

	_, err = l.purchases.CreatePurchase(ctx, l.actor, input)
	assert.ErrorIs(t, err, service.ErrDuplicatePurchaseNo)
	assert.Equal(t, service.ClassInvariant, service.Classify(err))

	// the failed insert rolled back its stock movement
	assert.Equal(t, 5, l.stockOf(t, paper.ID))
	s, err := l.catalog.GetSupplier(ctx, l.actor, acme.ID)
	require.NoError(t, err)
	assert.True(t, s.DueAmount.Equal(dec("20")))
}
