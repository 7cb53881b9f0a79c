package service_test

import (
	"context"
	"sync"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerPaymentAllocatesOldestFirst(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 100)
	rina := l.customer(t, "Rina")

	first := l.creditSale(t, rina, pen, 2)  // 20
	second := l.creditSale(t, rina, pen, 3) // 30
	third := l.creditSale(t, rina, pen, 1)  // 10

	payment, err := l.payments.CollectPaymentForCustomer(ctx, l.actor, service.CustomerPaymentInput{
		CustomerID: rina.ID,
		Amount:     dec("25"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AllocationCustomerTotal, payment.AllocationType)
	require.Len(t, payment.Allocations, 2)
	assert.Equal(t, first.ID, payment.Allocations[0].SaleID)
	assert.True(t, payment.Allocations[0].Amount.Equal(dec("20")))
	assert.Equal(t, second.ID, payment.Allocations[1].SaleID)
	assert.True(t, payment.Allocations[1].Amount.Equal(dec("5")))

	o, err := l.orders.GetOrder(ctx, l.actor, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, o.PaymentStatus)
	o, err = l.orders.GetOrder(ctx, l.actor, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPartial, o.PaymentStatus)
	assert.True(t, o.DueAmount.Equal(dec("25")))
	o, err = l.orders.GetOrder(ctx, l.actor, third.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentUnpaid, o.PaymentStatus)

	c, err := l.catalog.GetCustomer(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	assert.True(t, c.TotalDue.Equal(dec("35")))
	assert.True(t, c.TotalPaid.Equal(dec("25")))
	assert.Equal(t, 2, c.UnpaidInvoiceCount)

	history, err := l.payments.ListCustomerPayments(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Allocations, 2)
}

func TestInvoicePaymentRules(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 100)
	rina := l.customer(t, "Rina")
	order := l.creditSale(t, rina, pen, 3) // 30

	_, err := l.payments.CollectPaymentForInvoice(ctx, l.actor, service.InvoicePaymentInput{SaleID: order.ID, Amount: dec("31")})
	assert.ErrorIs(t, err, service.ErrAmountExceedsDue)

	c, err := l.catalog.GetCustomer(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	assert.True(t, c.TotalDue.Equal(dec("30")), "rejected payment must not change the customer")

	_, err = l.payments.CollectPaymentForInvoice(ctx, l.actor, service.InvoicePaymentInput{SaleID: order.ID, Amount: dec("0")})
	assert.ErrorIs(t, err, service.ErrValidation)

	payment, err := l.payments.CollectPaymentForInvoice(ctx, l.actor, service.InvoicePaymentInput{
		SaleID: order.ID,
		Amount: dec("30"),
		Method: model.MethodMobileBanking,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AllocationSpecificInvoice, payment.AllocationType)
	require.Len(t, payment.Allocations, 1)
	assert.Equal(t, order.OrderNumber, payment.Allocations[0].InvoiceNumber)

	o, err := l.orders.GetOrder(ctx, l.actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, o.PaymentStatus)
	assert.True(t, o.DueAmount.IsZero())

	c, err = l.catalog.GetCustomer(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	assert.True(t, c.TotalDue.IsZero())
	assert.Equal(t, 0, c.UnpaidInvoiceCount)

	_, err = l.payments.CollectPaymentForInvoice(ctx, l.actor, service.InvoicePaymentInput{SaleID: order.ID, Amount: dec("1")})
	assert.ErrorIs(t, err, service.ErrAlreadyPaid)

	_, err = l.payments.CollectPaymentForCustomer(ctx, l.actor, service.CustomerPaymentInput{CustomerID: rina.ID, Amount: dec("1")})
	assert.ErrorIs(t, err, service.ErrNoOutstandingDue)
}

func TestInvoicePaymentNeedsCustomer(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 10)

	walkIn, err := l.orders.CreateOrder(ctx, l.actor, service.CreateOrderInput{
		Items:      []service.OrderItemInput{{ProductID: &pen.ID, UnitPrice: dec("10"), Quantity: 1}},
		PaidAmount: decPtr("4"),
	})
	require.NoError(t, err)

	_, err = l.payments.CollectPaymentForInvoice(ctx, l.actor, service.InvoicePaymentInput{SaleID: walkIn.ID, Amount: dec("6")})
	assert.ErrorIs(t, err, service.ErrNoAssociatedCustomer)
}

func TestCustomerPaymentAboveDue(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	pen := l.product(t, "PEN", "10", 10)
	rina := l.customer(t, "Rina")
	l.creditSale(t, rina, pen, 1)

	_, err := l.payments.CollectPaymentForCustomer(ctx, l.actor, service.CustomerPaymentInput{CustomerID: rina.ID, Amount: dec("10.01")})
	assert.ErrorIs(t, err, service.ErrAmountExceedsDue)

	payments, err := l.payments.ListCustomerPayments(ctx, l.actor, rina.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestConcurrentCustomerPayments(t *testing.T) {
	l := newLedger(t)
	pen := l.product(t, "PEN", "10", 10)
	rina := l.customer(t, "Rina")
	l.creditSale(t, rina, pen, 3) // 30

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected []error
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.payments.CollectPaymentForCustomer(context.Background(), l.actor, service.CustomerPaymentInput{
				CustomerID: rina.ID,
				Amount:     dec("15"),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
				return
			}
			rejected = append(rejected, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, accepted)
	require.Len(t, rejected, 1)
	assert.Equal(t, service.ClassInvariant, service.Classify(rejected[0]))

	c, err := l.catalog.GetCustomer(context.Background(), l.actor, rina.ID)
	require.NoError(t, err)
	assert.True(t, c.TotalDue.IsZero())
	assert.True(t, c.TotalPaid.Equal(dec("30")))
	assert.Equal(t, 0, c.UnpaidInvoiceCount)
}
