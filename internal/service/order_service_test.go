package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndDeleteOrder(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	pen := l.product(t, "PEN", "10", 10)
	ink := l.product(t, "INK", "20", 5)
	rina := l.customer(t, "Rina")

	order, err := l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{
		CustomerID: &rina.ID,
		Items: []service.OrderItemInput{
			{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 3},
			{ProductID: &ink.ID, UnitPrice: dec("20"), Quantity: 1},
		},
		DiscountAmount: dec("5"),
		TaxAmount:      dec("2"),
		PaidAmount:     decPtr("20"),
	})
	require.NoError(t, err)

	assert.True(t, order.SubTotal.Equal(dec("50")))
	assert.True(t, order.TotalAmount.Equal(dec("47")))
	assert.True(t, order.DueAmount.Equal(dec("27")))
	assert.Equal(t, model.PaymentPartial, order.PaymentStatus)
	assert.Regexp(t, `^INV-\d{2}-`, order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Product PEN", order.Items[0].Name)

	assert.Equal(t, 7, l.stockOf(t, pen.ID))
	assert.Equal(t, 4, l.stockOf(t, ink.ID))

	c, err := l.catalog.GetCustomer(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	assert.True(t, c.TotalDue.Equal(dec("27")))
	assert.True(t, c.TotalPaid.Equal(dec("20")))
	assert.Equal(t, 1, c.InvoiceCount)
	assert.Equal(t, 1, c.UnpaidInvoiceCount)

	history, err := l.stock.StockHistory(ctx, l.actor, pen.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.MovementOut, history[0].Type)
	assert.Equal(t, 3, history[0].Quantity)
	assert.Equal(t, 10, history[0].PreviousStock)
	assert.Equal(t, 7, history[0].NewStock)
	assert.Equal(t, "Sale via POS (Invoice: "+order.OrderNumber+")", history[0].Reason)

	require.NoError(t, l.orders.DeleteOrder(ctx, l.actor, order.ID))

	assert.Equal(t, 10, l.stockOf(t, pen.ID))
	assert.Equal(t, 5, l.stockOf(t, ink.ID))

	c, err = l.catalog.GetCustomer(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	assert.True(t, c.TotalDue.IsZero())
	assert.True(t, c.TotalPaid.IsZero())
	assert.Equal(t, 0, c.InvoiceCount)
	assert.Equal(t, 0, c.UnpaidInvoiceCount)

	history, err = l.stock.StockHistory(ctx, l.actor, pen.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, model.MovementIn, history[0].Type)
	assert.Equal(t, "Order Deleted (Invoice: "+order.OrderNumber+")", history[0].Reason)

	_, err = l.orders.GetOrder(ctx, l.actor, order.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
	assert.ErrorIs(t, l.orders.DeleteOrder(ctx, l.actor, order.ID), service.ErrOrderNotFound)
}

func TestCreateOrderInsufficientStockWritesNothing(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	pen := l.product(t, "PEN", "10", 10)
	ink := l.product(t, "INK", "20", 2)
	rina := l.customer(t, "Rina")

	// Two lines of the same product are checked against their combined quantity
	_, err := l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{
		CustomerID: &rina.ID,
		Items: []service.OrderItemInput{
			{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 1},
			{ProductID: &ink.ID, UnitPrice: dec("20"), Quantity: 2},
			{ProductID: &ink.ID, UnitPrice: dec("20"), Quantity: 1},
		},
	})
	var insufficient *service.InsufficientStockError
	require.True(t, errors.As(err, &insufficient), "got %v", err)
	assert.Equal(t, ink.ID, insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)

	assert.Equal(t, 10, l.stockOf(t, pen.ID))
	assert.Equal(t, 2, l.stockOf(t, ink.ID))

	c, err := l.catalog.GetCustomer(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.InvoiceCount)

	history, err := l.stock.StockHistory(ctx, l.actor, pen.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 10)

	_, err := l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{
		Items: []service.OrderItemInput{{ProductID: &pen.ID, UnitPrice: dec("-1"), Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	missing := l.actor
	missing.TenantID = ""
	_, err = l.orders.CreateOrder(ctx, missing, service.CreateOrderInput{
		Items: []service.OrderItemInput{{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	other := l.actor
	other.TenantID = l.actor.TenantID + "-other"
	_, err = l.orders.CreateOrder(ctx, other, service.CreateOrderInput{
		Items: []service.OrderItemInput{{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 1}},
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	assert.Equal(t, 10, l.stockOf(t, pen.ID))
}

func TestWalkInOrderWithCustomLine(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 10)

	order, err := l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{
		CustomerName: "Walk-in",
		Items: []service.OrderItemInput{
			{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 2},
			{IsCustom: true, Name: "Gift wrap", UnitPrice: dec("3"), Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, order.CustomerID)
	assert.True(t, order.TotalAmount.Equal(dec("23")))
	assert.Equal(t, model.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, 8, l.stockOf(t, pen.ID))
}

func TestConcurrentSaleOfLastUnit(t *testing.T) {
	l := newLedger(t)
	pen := l.product(t, "PEN", "10", 1)

	const buyers = 5
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		okN  int
		errs []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.orders.CreateOrder(context.Background(), l.actor, service.CreateOrderInput{
				Items: []service.OrderItemInput{{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okN++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okN)
	for _, err := range errs {
		assert.ErrorIs(t, err, service.ErrInsufficientStock)
	}
	assert.Equal(t, 0, l.stockOf(t, pen.ID))

	history, err := l.stock.StockHistory(context.Background(), l.actor, pen.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCreateOrderIdempotencyKey(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 2)

	input := service.CreateOrderInput{
		Items:          []service.OrderItemInput{{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 1}},
		IdempotencyKey: "checkout-1",
	}
	first, err := l.orders.CreateOrder(ctx, l.actor, input)
	require.NoError(t, err)

	_, err = l.orders.CreateOrder(ctx, l.actor, input)
	var dup *service.DuplicateRequestError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, first.ID.String(), dup.ReferenceID)
	assert.Equal(t, 1, l.stockOf(t, pen.ID))

	// A rejected attempt does not burn its key
	retry := service.CreateOrderInput{
		Items:          []service.OrderItemInput{{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 3}},
		IdempotencyKey: "checkout-2",
	}
	_, err = l.orders.CreateOrder(ctx, l.actor, retry)
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	_, err = l.stock.ApplyMovement(ctx, l.actor, service.StockMovementInput{ProductID: pen.ID, Type: model.MovementIn, Quantity: 5})
	require.NoError(t, err)

	_, err = l.orders.CreateOrder(ctx, l.actor, retry)
	require.NoError(t, err)
	assert.Equal(t, 3, l.stockOf(t, pen.ID))
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 10)
	rina := l.customer(t, "Rina")
	order := l.creditSale(t, rina, pen, 1)

	assert.ErrorIs(t, l.catalog.DeleteCustomer(ctx, l.actor, rina.ID), service.ErrCustomerHasOrders)

	require.NoError(t, l.orders.DeleteOrder(ctx, l.actor, order.ID))
	require.NoError(t, l.catalog.DeleteCustomer(ctx, l.actor, rina.ID))

	_, err := l.catalog.GetCustomer(ctx, l.actor, rina.ID)
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestStockHistoryKeepsInsertionOrderWithinOneOrder(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 10)

	_, err := l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{
		Items: []service.OrderItemInput{
			{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 2},
			{ProductID: &pen.ID, UnitPrice: dec("9"), Quantity: 1},
		},
	})
	require.NoError(t, err)

	history, err := l.stock.StockHistory(ctx, l.actor, pen.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 1, history[0].Quantity)
	assert.Equal(t, 8, history[0].PreviousStock)
	assert.Equal(t, 7, history[0].NewStock)
	assert.Equal(t, 2, history[1].Quantity)
	assert.Equal(t, 10, history[1].PreviousStock)
	assert.Greater(t, history[0].Seq, history[1].Seq)
}
