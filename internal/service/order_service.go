package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	opCreateOrder = "create_order"
	opDeleteOrder = "delete_order"
)

type OrderItemInput struct {
	ProductID     *uuid.UUID      `json:"product_id"`
	IsCustom      bool            `json:"is_custom"`
	Name          string          `json:"name" validate:"max=255"`
	SKU           string          `json:"sku" validate:"max=50"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"dgte0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"dgte0"`
	Quantity      int             `json:"quantity" validate:"min=1"`
}

type CreateOrderInput struct {
	CustomerID     *uuid.UUID          `json:"customer_id"`
	CustomerName   string              `json:"customer_name" validate:"max=255"`
	CustomerPhone  string              `json:"customer_phone" validate:"max=30"`
	Items          []OrderItemInput    `json:"items" validate:"required,min=1,dive"`
	DiscountAmount decimal.Decimal     `json:"discount_amount" validate:"dgte0"`
	TaxAmount      decimal.Decimal     `json:"tax_amount" validate:"dgte0"`
	PaidAmount     *decimal.Decimal    `json:"paid_amount" validate:"omitempty,dgte0"`
	PaymentMethod  model.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=Cash Card 'Mobile Banking' Other"`
	IdempotencyKey string              `json:"idempotency_key" validate:"omitempty,max=255"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, input CreateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, actor Actor, id uuid.UUID) error
	GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*model.Order, error)
	ListCustomerInvoices(ctx context.Context, actor Actor, customerID uuid.UUID) ([]model.Order, error)
}

type orderService struct {
	*engine
}

func NewOrderService(d Deps) OrderService {
	return &orderService{newEngine(d)}
}

func checkOrderInput(input *CreateOrderInput) error {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return validationError(errs)
	}
	for i, item := range input.Items {
		if !item.IsCustom && item.ProductID == nil {
			return invalid("items[%d]: product_id is required for non-custom items", i)
		}
		if item.IsCustom && item.Name == "" {
			return invalid("items[%d]: name is required for custom items", i)
		}
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = model.MethodCash
	}
	return nil
}

// demandByProduct sums requested quantities per product over stock-linked lines
func demandByProduct(items []OrderItemInput) (map[uuid.UUID]int, []uuid.UUID) {
	demand := make(map[uuid.UUID]int)
	var ids []uuid.UUID
	for _, item := range items {
		if item.IsCustom || item.ProductID == nil {
			continue
		}
		if _, seen := demand[*item.ProductID]; !seen {
			ids = append(ids, *item.ProductID)
		}
		demand[*item.ProductID] += item.Quantity
	}
	return demand, ids
}

func saleReason(orderNumber string) string {
	return fmt.Sprintf("Sale via POS (Invoice: %s)", orderNumber)
}

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, input CreateOrderInput) (*model.Order, error) {
	if err := checkOrderInput(&input); err != nil {
		return nil, err
	}
	totals := computeOrderTotals(input.Items, input.DiscountAmount, input.TaxAmount, input.PaidAmount)
	demand, productIDs := demandByProduct(input.Items)

	var (
		order     *model.Order
		movements []*model.StockMovement
		products  map[uuid.UUID]*model.Product
	)
	err := s.inTx(ctx, actor, opCreateOrder, func(tx *gorm.DB) error {
		claim, err := s.claim(tx, actor, opCreateOrder, input.IdempotencyKey)
		if err != nil {
			return err
		}

		// Pre-flight: lock every product and check the whole order before writing anything
		products, err = lockProducts(tx, s.repos.Products, actor.TenantID, productIDs)
		if err != nil {
			return err
		}
		for _, id := range productIDs {
			p := products[id]
			if p.TracksStock() && p.StockQuantity < demand[id] {
				return &InsufficientStockError{ProductID: p.ID, Name: p.Name, Requested: demand[id], Available: p.StockQuantity}
			}
		}

		var customer *model.Customer
		if input.CustomerID != nil {
			customer, err = s.repos.Customers.LockByID(tx, actor.TenantID, *input.CustomerID)
			if err != nil {
				return notFound(err, ErrCustomerNotFound)
			}
		}

		order = buildOrder(actor, input, totals, products, customer, s.numbers.next(s.cfg.OrderPrefix))
		if err := s.repos.Orders.Create(tx, order); err != nil {
			return err
		}

		if customer != nil {
			invoiceOpened(customer, order.PaidAmount, order.DueAmount)
			if err := s.repos.Customers.SaveAggregates(tx, customer, actor.UserID); err != nil {
				return err
			}
		}

		for _, item := range order.Items {
			if !item.StockLinked() {
				continue
			}
			p := products[*item.ProductID]
			if !p.TracksStock() {
				continue
			}
			m, err := s.stock.apply(tx, actor, p, model.MovementOut, item.Quantity, saleReason(order.OrderNumber), order.OrderNumber)
			if err != nil {
				return err
			}
			if m != nil {
				movements = append(movements, m)
			}
		}

		return s.settle(tx, claim, order.ID.String())
	})
	if err != nil {
		return nil, err
	}

	s.afterMovements(actor, movements, products)
	s.publish(actor, Event{
		Type:    "order",
		Action:  "order_created",
		Data:    order,
		Message: fmt.Sprintf("%s created invoice %s (%s)", actor.Name, order.OrderNumber, order.TotalAmount.StringFixed(2)),
	})
	return order, nil
}

func buildOrder(actor Actor, input CreateOrderInput, totals orderTotals, products map[uuid.UUID]*model.Product, customer *model.Customer, number string) *model.Order {
	order := &model.Order{
		OrderNumber:    number,
		CustomerID:     input.CustomerID,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		SubTotal:       totals.SubTotal,
		DiscountAmount: input.DiscountAmount,
		TaxAmount:      input.TaxAmount,
		TotalAmount:    totals.Total,
		PaidAmount:     totals.Paid,
		DueAmount:      totals.Due,
		PaymentMethod:  input.PaymentMethod,
		PaymentStatus:  totals.Status,
	}
	order.TenantID = actor.TenantID
	order.CreatedBy = actor.UserID
	order.UpdatedBy = actor.UserID

	if customer != nil {
		if order.CustomerName == "" {
			order.CustomerName = customer.Name
		}
		if order.CustomerPhone == "" {
			order.CustomerPhone = customer.Phone
		}
	}

	order.Items = make([]model.OrderItem, len(input.Items))
	for i, in := range input.Items {
		item := model.OrderItem{
			Position:      i,
			ProductID:     in.ProductID,
			IsCustom:      in.IsCustom,
			Name:          in.Name,
			SKU:           in.SKU,
			UnitPrice:     in.UnitPrice,
			PurchasePrice: in.PurchasePrice,
			Quantity:      in.Quantity,
			SubTotal:      lineSubTotal(in.UnitPrice, in.Quantity),
		}
		if item.IsCustom {
			item.ProductID = nil
		} else if p, ok := products[*in.ProductID]; ok {
			// Snapshot the catalog so later product edits do not rewrite history
			if item.Name == "" {
				item.Name = p.Name
			}
			if item.SKU == "" {
				item.SKU = p.SKU
			}
			if item.PurchasePrice.IsZero() {
				item.PurchasePrice = p.PurchasePrice
			}
		}
		order.Items[i] = item
	}
	return order
}

func (s *orderService) DeleteOrder(ctx context.Context, actor Actor, id uuid.UUID) error {
	var (
		order     *model.Order
		movements []*model.StockMovement
		products  map[uuid.UUID]*model.Product
	)
	err := s.inTx(ctx, actor, opDeleteOrder, func(tx *gorm.DB) error {
		// Unlocked read to learn which products and customer to lock first
		peek, err := s.repos.Orders.Peek(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}

		var productIDs []uuid.UUID
		for _, item := range peek.Items {
			if item.StockLinked() {
				productIDs = append(productIDs, *item.ProductID)
			}
		}
		products, err = s.lockExistingProducts(tx, actor, productIDs)
		if err != nil {
			return err
		}

		var customer *model.Customer
		if peek.CustomerID != nil {
			customer, err = s.repos.Customers.LockByID(tx, actor.TenantID, *peek.CustomerID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		order, err = s.repos.Orders.LockByID(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}

		reason := fmt.Sprintf("Order Deleted (Invoice: %s)", order.OrderNumber)
		for _, item := range order.Items {
			if !item.StockLinked() {
				continue
			}
			p, ok := products[*item.ProductID]
			if !ok || !p.TracksStock() {
				continue
			}
			m, err := s.stock.apply(tx, actor, p, model.MovementIn, item.Quantity, reason, order.OrderNumber)
			if err != nil {
				return err
			}
			if m != nil {
				movements = append(movements, m)
			}
		}

		if customer != nil {
			invoiceRemoved(customer, order)
			if err := s.repos.Customers.SaveAggregates(tx, customer, actor.UserID); err != nil {
				return err
			}
		}
		return s.repos.Orders.SoftDelete(tx, order, actor.UserID)
	})
	if err != nil {
		return err
	}

	s.afterMovements(actor, movements, nil)
	s.publish(actor, Event{
		Type:   "order",
		Action: "order_deleted",
		Data: map[string]interface{}{
			"id":           order.ID,
			"order_number": order.OrderNumber,
		},
		Message: fmt.Sprintf("%s deleted invoice %s", actor.Name, order.OrderNumber),
	})
	return nil
}

// lockExistingProducts locks the products that still exist. A product removed
// from the catalog since the sale has no stock to restore.
func (s *orderService) lockExistingProducts(tx *gorm.DB, actor Actor, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	locked := make(map[uuid.UUID]*model.Product, len(ids))
	for _, id := range repository.SortIDs(ids) {
		p, err := s.repos.Products.LockByID(tx, actor.TenantID, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("product no longer exists, stock not restored",
				zap.String("tenant_id", actor.TenantID), zap.String("product_id", id.String()))
			continue
		}
		if err != nil {
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*model.Order, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	order, err := s.repos.Orders.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func (s *orderService) ListCustomerInvoices(ctx context.Context, actor Actor, customerID uuid.UUID) ([]model.Order, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	if _, err := s.repos.Customers.FindByID(ctx, actor.TenantID, customerID); err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	orders, err := s.repos.Orders.FindByCustomer(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, translateDBError(err)
	}
	return orders, nil
}
