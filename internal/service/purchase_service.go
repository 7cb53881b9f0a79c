package service

import (
	"context"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	opCreatePurchase = "create_purchase"
	opUpdatePurchase = "update_purchase"
	opDeletePurchase = "delete_purchase"
)

type PurchaseItemInput struct {
	ProductID     uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity      int             `json:"quantity" validate:"min=1"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"dgte0"`
}

type PurchaseInput struct {
	SupplierID     uuid.UUID            `json:"supplier_id" validate:"uuid_required"`
	PurchaseNumber string               `json:"purchase_number" validate:"max=50"`
	Items          []PurchaseItemInput  `json:"items" validate:"required,min=1,dive"`
	PaidAmount     decimal.Decimal      `json:"paid_amount" validate:"dgte0"`
	Status         model.PurchaseStatus `json:"status" validate:"omitempty,oneof=Pending Completed Cancelled"`
	Notes          string               `json:"notes" validate:"max=2000"`
	IdempotencyKey string               `json:"idempotency_key" validate:"omitempty,max=255"`
}

type PurchaseService interface {
	CreatePurchase(ctx context.Context, actor Actor, input PurchaseInput) (*model.Purchase, error)
	UpdatePurchase(ctx context.Context, actor Actor, id uuid.UUID, input PurchaseInput) (*model.Purchase, error)
	DeletePurchase(ctx context.Context, actor Actor, id uuid.UUID) error
	GetPurchase(ctx context.Context, actor Actor, id uuid.UUID) (*model.Purchase, error)
}

type purchaseService struct {
	*engine
}

func NewPurchaseService(d Deps) PurchaseService {
	return &purchaseService{newEngine(d)}
}

func checkPurchaseInput(input *PurchaseInput) error {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return validationError(errs)
	}
	if input.Status == "" {
		input.Status = model.PurchaseCompleted
	}
	return nil
}

func purchaseReason(action, number string) string {
	return fmt.Sprintf("%s [%s]", action, number)
}

// lockPurchaseRows locks products then suppliers, each set in ascending id order
func (s *purchaseService) lockPurchaseRows(tx *gorm.DB, actor Actor, productIDs, supplierIDs []uuid.UUID) (map[uuid.UUID]*model.Product, map[uuid.UUID]*model.Supplier, error) {
	products, err := lockProducts(tx, s.repos.Products, actor.TenantID, productIDs)
	if err != nil {
		return nil, nil, err
	}
	suppliers := make(map[uuid.UUID]*model.Supplier, len(supplierIDs))
	for _, id := range repository.SortIDs(supplierIDs) {
		sup, err := s.repos.Suppliers.LockByID(tx, actor.TenantID, id)
		if err != nil {
			return nil, nil, notFound(err, ErrSupplierNotFound)
		}
		suppliers[id] = sup
	}
	return products, suppliers, nil
}

func buildPurchaseItems(items []PurchaseItemInput, products map[uuid.UUID]*model.Product) []model.PurchaseItem {
	out := make([]model.PurchaseItem, len(items))
	for i, in := range items {
		p := products[in.ProductID]
		out[i] = model.PurchaseItem{
			Position:      i,
			ProductID:     in.ProductID,
			Name:          p.Name,
			SKU:           p.SKU,
			Quantity:      in.Quantity,
			PurchasePrice: in.PurchasePrice,
			SubTotal:      lineSubTotal(in.PurchasePrice, in.Quantity),
		}
	}
	return out
}

func itemProductIDs(items []model.PurchaseItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}

// complete books a Completed purchase: supplier payable, stock IN and latest cost per item
func (s *purchaseService) complete(tx *gorm.DB, actor Actor, p *model.Purchase, products map[uuid.UUID]*model.Product, supplier *model.Supplier, reason string) ([]*model.StockMovement, error) {
	if payableAdded(supplier, p.DueAmount) {
		if err := s.repos.Suppliers.UpdateDue(tx, supplier.ID, supplier.DueAmount, actor.UserID); err != nil {
			return nil, err
		}
	}

	var movements []*model.StockMovement
	for _, item := range p.Items {
		product := products[item.ProductID]
		if product.TracksStock() {
			m, err := s.stock.apply(tx, actor, product, model.MovementIn, item.Quantity, reason, p.PurchaseNumber)
			if err != nil {
				return nil, err
			}
			if m != nil {
				movements = append(movements, m)
			}
		}
		if err := s.repos.Products.UpdateCost(tx, product.ID, item.PurchasePrice, supplier.ID, actor.UserID); err != nil {
			return nil, err
		}
		product.PurchasePrice = item.PurchasePrice
		supplierID := supplier.ID
		product.SupplierID = &supplierID
	}
	return movements, nil
}

// reverse undoes complete. Units already sold cannot come back, so stock is clamped at zero.
func (s *purchaseService) reverse(tx *gorm.DB, actor Actor, p *model.Purchase, products map[uuid.UUID]*model.Product, supplier *model.Supplier, reason string) ([]*model.StockMovement, error) {
	if payableReversed(supplier, p.DueAmount) {
		if err := s.repos.Suppliers.UpdateDue(tx, supplier.ID, supplier.DueAmount, actor.UserID); err != nil {
			return nil, err
		}
	}

	var movements []*model.StockMovement
	for _, item := range p.Items {
		product := products[item.ProductID]
		if !product.TracksStock() {
			continue
		}
		m, err := s.stock.withdrawClamped(tx, actor, product, item.Quantity, reason, p.PurchaseNumber)
		if err != nil {
			return nil, err
		}
		if m != nil {
			movements = append(movements, m)
		}
	}
	return movements, nil
}

func (s *purchaseService) CreatePurchase(ctx context.Context, actor Actor, input PurchaseInput) (*model.Purchase, error) {
	if err := checkPurchaseInput(&input); err != nil {
		return nil, err
	}
	totals := computePurchaseTotals(input.Items, input.PaidAmount)
	number := input.PurchaseNumber
	if number == "" {
		number = s.numbers.next(s.cfg.PurchasePrefix)
	}

	var (
		purchase  *model.Purchase
		movements []*model.StockMovement
	)
	err := s.inTx(ctx, actor, opCreatePurchase, func(tx *gorm.DB) error {
		claim, err := s.claim(tx, actor, opCreatePurchase, input.IdempotencyKey)
		if err != nil {
			return err
		}

		productIDs := make([]uuid.UUID, len(input.Items))
		for i, item := range input.Items {
			productIDs[i] = item.ProductID
		}
		products, suppliers, err := s.lockPurchaseRows(tx, actor, productIDs, []uuid.UUID{input.SupplierID})
		if err != nil {
			return err
		}

		purchase = &model.Purchase{
			PurchaseNumber: number,
			SupplierID:     input.SupplierID,
			Items:          buildPurchaseItems(input.Items, products),
			TotalAmount:    totals.Total,
			PaidAmount:     totals.Paid,
			DueAmount:      totals.Due,
			Status:         input.Status,
			PaymentStatus:  totals.Status,
			Notes:          input.Notes,
		}
		purchase.TenantID = actor.TenantID
		purchase.CreatedBy = actor.UserID
		purchase.UpdatedBy = actor.UserID
		if err := s.repos.Purchases.Create(tx, purchase); err != nil {
			return err
		}

		if purchase.IsCompleted() {
			movements, err = s.complete(tx, actor, purchase, products, suppliers[input.SupplierID], purchaseReason("Purchase Restock", number))
			if err != nil {
				return err
			}
		}
		return s.settle(tx, claim, purchase.ID.String())
	})
	if err != nil {
		return nil, err
	}

	s.afterMovements(actor, movements, nil)
	s.publish(actor, Event{
		Type:    "purchase",
		Action:  "purchase_created",
		Data:    purchase,
		Message: fmt.Sprintf("%s created purchase %s (%s)", actor.Name, purchase.PurchaseNumber, purchase.Status),
	})
	return purchase, nil
}

func (s *purchaseService) UpdatePurchase(ctx context.Context, actor Actor, id uuid.UUID, input PurchaseInput) (*model.Purchase, error) {
	if err := checkPurchaseInput(&input); err != nil {
		return nil, err
	}
	totals := computePurchaseTotals(input.Items, input.PaidAmount)

	var (
		purchase  *model.Purchase
		movements []*model.StockMovement
		products  map[uuid.UUID]*model.Product
	)
	err := s.inTx(ctx, actor, opUpdatePurchase, func(tx *gorm.DB) error {
		claim, err := s.claim(tx, actor, opUpdatePurchase, input.IdempotencyKey)
		if err != nil {
			return err
		}

		peek, err := s.repos.Purchases.Peek(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrPurchaseNotFound)
		}

		productIDs := itemProductIDs(peek.Items)
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		var suppliers map[uuid.UUID]*model.Supplier
		products, suppliers, err = s.lockPurchaseRows(tx, actor, productIDs, []uuid.UUID{peek.SupplierID, input.SupplierID})
		if err != nil {
			return err
		}

		purchase, err = s.repos.Purchases.LockByID(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrPurchaseNotFound)
		}
		// Someone edited the purchase between the peek and the lock; the locked
		// product / supplier set may not cover the new items
		if !purchase.UpdatedAt.Equal(peek.UpdatedAt) {
			return fmt.Errorf("%w: purchase %s changed concurrently", ErrConflict, purchase.PurchaseNumber)
		}

		number := purchase.PurchaseNumber
		if input.PurchaseNumber != "" {
			number = input.PurchaseNumber
		}

		if purchase.IsCompleted() {
			reversed, err := s.reverse(tx, actor, purchase, products, suppliers[purchase.SupplierID], purchaseReason("Purchase Edit Reversal", purchase.PurchaseNumber))
			if err != nil {
				return err
			}
			movements = append(movements, reversed...)
		}

		purchase.PurchaseNumber = number
		purchase.SupplierID = input.SupplierID
		purchase.Items = buildPurchaseItems(input.Items, products)
		purchase.TotalAmount = totals.Total
		purchase.PaidAmount = totals.Paid
		purchase.DueAmount = totals.Due
		purchase.Status = input.Status
		purchase.PaymentStatus = totals.Status
		purchase.Notes = input.Notes
		purchase.UpdatedBy = actor.UserID

		if purchase.IsCompleted() {
			restocked, err := s.complete(tx, actor, purchase, products, suppliers[input.SupplierID], purchaseReason("Purchase Edit Restock", number))
			if err != nil {
				return err
			}
			movements = append(movements, restocked...)
		}

		if err := s.repos.Purchases.Update(tx, purchase, actor.UserID); err != nil {
			return err
		}
		return s.settle(tx, claim, purchase.ID.String())
	})
	if err != nil {
		return nil, err
	}

	s.afterMovements(actor, movements, products)
	s.publish(actor, Event{
		Type:    "purchase",
		Action:  "purchase_updated",
		Data:    purchase,
		Message: fmt.Sprintf("%s updated purchase %s", actor.Name, purchase.PurchaseNumber),
	})
	return purchase, nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, actor Actor, id uuid.UUID) error {
	var (
		purchase  *model.Purchase
		movements []*model.StockMovement
		products  map[uuid.UUID]*model.Product
	)
	err := s.inTx(ctx, actor, opDeletePurchase, func(tx *gorm.DB) error {
		peek, err := s.repos.Purchases.Peek(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrPurchaseNotFound)
		}

		var suppliers map[uuid.UUID]*model.Supplier
		products, suppliers, err = s.lockPurchaseRows(tx, actor, itemProductIDs(peek.Items), []uuid.UUID{peek.SupplierID})
		if err != nil {
			return err
		}

		purchase, err = s.repos.Purchases.LockByID(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrPurchaseNotFound)
		}
		if !purchase.UpdatedAt.Equal(peek.UpdatedAt) {
			return fmt.Errorf("%w: purchase %s changed concurrently", ErrConflict, purchase.PurchaseNumber)
		}

		if purchase.IsCompleted() {
			movements, err = s.reverse(tx, actor, purchase, products, suppliers[purchase.SupplierID], purchaseReason("Purchase Deleted", purchase.PurchaseNumber))
			if err != nil {
				return err
			}
		}
		return s.repos.Purchases.SoftDelete(tx, purchase, actor.UserID)
	})
	if err != nil {
		return err
	}

	s.afterMovements(actor, movements, products)
	s.publish(actor, Event{
		Type:   "purchase",
		Action: "purchase_deleted",
		Data: map[string]interface{}{
			"id":              purchase.ID,
			"purchase_number": purchase.PurchaseNumber,
		},
		Message: fmt.Sprintf("%s deleted purchase %s", actor.Name, purchase.PurchaseNumber),
	})
	return nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, actor Actor, id uuid.UUID) (*model.Purchase, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	purchase, err := s.repos.Purchases.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFound(err, ErrPurchaseNotFound)
	}
	return purchase, nil
}
