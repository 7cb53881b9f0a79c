package service

import (
	"context"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	opCollectInvoice  = "collect_invoice_payment"
	opCollectCustomer = "collect_customer_payment"
)

type InvoicePaymentInput struct {
	SaleID         uuid.UUID           `json:"sale_id" validate:"uuid_required"`
	Amount         decimal.Decimal     `json:"amount" validate:"dgt0"`
	Method         model.PaymentMethod `json:"method" validate:"omitempty,oneof=Cash Card 'Mobile Banking' Other"`
	Note           string              `json:"note" validate:"max=1000"`
	IdempotencyKey string              `json:"idempotency_key" validate:"omitempty,max=255"`
}

type CustomerPaymentInput struct {
	CustomerID     uuid.UUID           `json:"customer_id" validate:"uuid_required"`
	Amount         decimal.Decimal     `json:"amount" validate:"dgt0"`
	Method         model.PaymentMethod `json:"method" validate:"omitempty,oneof=Cash Card 'Mobile Banking' Other"`
	Note           string              `json:"note" validate:"max=1000"`
	IdempotencyKey string              `json:"idempotency_key" validate:"omitempty,max=255"`
}

type PaymentService interface {
	CollectPaymentForInvoice(ctx context.Context, actor Actor, input InvoicePaymentInput) (*model.Payment, error)
	CollectPaymentForCustomer(ctx context.Context, actor Actor, input CustomerPaymentInput) (*model.Payment, error)
	ListCustomerPayments(ctx context.Context, actor Actor, customerID uuid.UUID) ([]model.Payment, error)
}

type paymentService struct {
	*engine
}

func NewPaymentService(d Deps) PaymentService {
	return &paymentService{newEngine(d)}
}

func newPayment(actor Actor, customerID uuid.UUID, amount decimal.Decimal, method model.PaymentMethod, note string, kind model.AllocationType) *model.Payment {
	if method == "" {
		method = model.MethodCash
	}
	p := &model.Payment{
		CustomerID:     customerID,
		Amount:         amount,
		Method:         method,
		Note:           note,
		AllocationType: kind,
	}
	p.TenantID = actor.TenantID
	p.CreatedBy = actor.UserID
	return p
}

func (s *paymentService) CollectPaymentForInvoice(ctx context.Context, actor Actor, input InvoicePaymentInput) (*model.Payment, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var (
		payment *model.Payment
		order   *model.Order
	)
	err := s.inTx(ctx, actor, opCollectInvoice, func(tx *gorm.DB) error {
		claim, err := s.claim(tx, actor, opCollectInvoice, input.IdempotencyKey)
		if err != nil {
			return err
		}

		// Customer before order: read the invoice unlocked to find its customer
		peek, err := s.repos.Orders.Peek(tx, actor.TenantID, input.SaleID)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		var customer *model.Customer
		if peek.CustomerID != nil {
			customer, err = s.repos.Customers.LockByID(tx, actor.TenantID, *peek.CustomerID)
			if err != nil {
				return notFound(err, ErrCustomerNotFound)
			}
		}

		order, err = s.repos.Orders.LockByID(tx, actor.TenantID, input.SaleID)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		if order.PaymentStatus == model.PaymentPaid || !order.DueAmount.IsPositive() {
			return ErrAlreadyPaid
		}
		if input.Amount.GreaterThan(order.DueAmount) {
			return fmt.Errorf("%w: amount %s, due %s", ErrAmountExceedsDue, input.Amount, order.DueAmount)
		}
		if customer == nil {
			return ErrNoAssociatedCustomer
		}

		paidOff := payInvoice(order, input.Amount)
		if err := s.repos.Orders.UpdatePayment(tx, order, actor.UserID); err != nil {
			return err
		}

		count := 0
		if paidOff {
			count = 1
		}
		paymentReceived(customer, input.Amount, count)
		if err := s.repos.Customers.SaveAggregates(tx, customer, actor.UserID); err != nil {
			return err
		}

		payment = newPayment(actor, customer.ID, input.Amount, input.Method, input.Note, model.AllocationSpecificInvoice)
		payment.SaleID = &order.ID
		payment.Allocations = []model.PaymentAllocation{{
			Position:      0,
			SaleID:        order.ID,
			Amount:        input.Amount,
			InvoiceNumber: order.OrderNumber,
		}}
		if err := s.repos.Payments.Create(tx, payment); err != nil {
			return err
		}
		return s.settle(tx, claim, payment.ID.String())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(string(payment.AllocationType), payment.Amount.InexactFloat64())
	s.publish(actor, Event{
		Type:    "payment",
		Action:  "payment_collected",
		Data:    payment,
		Message: fmt.Sprintf("%s collected %s for invoice %s", actor.Name, payment.Amount.StringFixed(2), order.OrderNumber),
	})
	return payment, nil
}

func (s *paymentService) CollectPaymentForCustomer(ctx context.Context, actor Actor, input CustomerPaymentInput) (*model.Payment, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var payment *model.Payment
	err := s.inTx(ctx, actor, opCollectCustomer, func(tx *gorm.DB) error {
		claim, err := s.claim(tx, actor, opCollectCustomer, input.IdempotencyKey)
		if err != nil {
			return err
		}

		customer, err := s.repos.Customers.LockByID(tx, actor.TenantID, input.CustomerID)
		if err != nil {
			return notFound(err, ErrCustomerNotFound)
		}
		if !customer.TotalDue.IsPositive() {
			return ErrNoOutstandingDue
		}
		if input.Amount.GreaterThan(customer.TotalDue) {
			return fmt.Errorf("%w: amount %s, due %s", ErrAmountExceedsDue, input.Amount, customer.TotalDue)
		}

		invoices, err := s.repos.Orders.LockOpenByCustomer(tx, actor.TenantID, customer.ID)
		if err != nil {
			return err
		}
		// The aggregate can only be trusted as far as the invoices back it
		if open := outstanding(invoices); input.Amount.GreaterThan(open) {
			return fmt.Errorf("%w: amount %s, open invoices %s", ErrAmountExceedsDue, input.Amount, open)
		}

		allocs, _, _ := allocateFIFO(invoices, input.Amount)
		payment = newPayment(actor, customer.ID, input.Amount, input.Method, input.Note, model.AllocationCustomerTotal)
		paidOff := 0
		for pos, a := range allocs {
			inv := &invoices[a.Index]
			if payInvoice(inv, a.Amount) {
				paidOff++
			}
			if err := s.repos.Orders.UpdatePayment(tx, inv, actor.UserID); err != nil {
				return err
			}
			payment.Allocations = append(payment.Allocations, model.PaymentAllocation{
				Position:      pos,
				SaleID:        inv.ID,
				Amount:        a.Amount,
				InvoiceNumber: inv.OrderNumber,
			})
		}

		paymentReceived(customer, input.Amount, paidOff)
		if err := s.repos.Customers.SaveAggregates(tx, customer, actor.UserID); err != nil {
			return err
		}
		if err := s.repos.Payments.Create(tx, payment); err != nil {
			return err
		}
		return s.settle(tx, claim, payment.ID.String())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(string(payment.AllocationType), payment.Amount.InexactFloat64())
	s.publish(actor, Event{
		Type:    "payment",
		Action:  "payment_collected",
		Data:    payment,
		Message: fmt.Sprintf("%s collected %s across %d invoice(s)", actor.Name, payment.Amount.StringFixed(2), len(payment.Allocations)),
	})
	return payment, nil
}

func (s *paymentService) ListCustomerPayments(ctx context.Context, actor Actor, customerID uuid.UUID) ([]model.Payment, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	if _, err := s.repos.Customers.FindByID(ctx, actor.TenantID, customerID); err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	payments, err := s.repos.Payments.FindByCustomer(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, translateDBError(err)
	}
	return payments, nil
}
