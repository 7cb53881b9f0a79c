package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const opApplyMovement = "apply_stock_movement"

// stockPlan is the outcome of a movement before anything is written
type stockPlan struct {
	Type          model.MovementType
	Quantity      int
	PreviousStock int
	NewStock      int
}

// planStockMovement computes a movement against previous. effective is false
// for no-ops (IN/OUT of zero, ADJUST to the current quantity); no-ops write nothing.
// For ADJUST, quantity is the desired absolute stock and the plan records |desired - previous|.
func planStockMovement(previous int, movementType model.MovementType, quantity int) (plan stockPlan, effective bool, err error) {
	if quantity < 0 {
		return plan, false, fmt.Errorf("%w: quantity must not be negative", ErrInvalidMovement)
	}
	plan = stockPlan{Type: movementType, PreviousStock: previous, NewStock: previous}

	switch movementType {
	case model.MovementIn:
		plan.Quantity = quantity
		plan.NewStock = previous + quantity
	case model.MovementOut:
		if quantity > previous {
			return plan, false, &InsufficientStockError{Requested: quantity, Available: previous}
		}
		plan.Quantity = quantity
		plan.NewStock = previous - quantity
	case model.MovementAdjust:
		plan.NewStock = quantity
		plan.Quantity = quantity - previous
		if plan.Quantity < 0 {
			plan.Quantity = -plan.Quantity
		}
	default:
		return plan, false, fmt.Errorf("%w: unknown type %q", ErrInvalidMovement, movementType)
	}
	return plan, plan.Quantity != 0, nil
}

// stockLedger is the only writer of Product.StockQuantity
type stockLedger struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

// apply moves stock of a product already locked in tx and appends the audit row.
// It returns nil for a no-op.
func (l *stockLedger) apply(tx *gorm.DB, actor Actor, product *model.Product, movementType model.MovementType, quantity int, reason, reference string) (*model.StockMovement, error) {
	if !product.TracksStock() {
		return nil, fmt.Errorf("%w: %s", ErrNotStockTracked, product.Name)
	}
	plan, effective, err := planStockMovement(product.StockQuantity, movementType, quantity)
	if err != nil {
		var insufficient *InsufficientStockError
		if errors.As(err, &insufficient) {
			insufficient.ProductID = product.ID
			insufficient.Name = product.Name
		}
		return nil, err
	}
	if !effective {
		return nil, nil
	}

	if err := l.products.UpdateStock(tx, product.ID, plan.NewStock, actor.UserID); err != nil {
		return nil, err
	}
	movement := &model.StockMovement{
		ProductID:     product.ID,
		Type:          plan.Type,
		Quantity:      plan.Quantity,
		PreviousStock: plan.PreviousStock,
		NewStock:      plan.NewStock,
		Reason:        reason,
		Reference:     reference,
	}
	movement.TenantID = actor.TenantID
	movement.CreatedBy = actor.UserID
	if err := l.movements.Create(tx, movement); err != nil {
		return nil, err
	}
	product.StockQuantity = plan.NewStock
	return movement, nil
}

// withdrawClamped removes up to quantity units, never taking stock below zero.
// Used when reversing a purchase whose units may already have been sold.
func (l *stockLedger) withdrawClamped(tx *gorm.DB, actor Actor, product *model.Product, quantity int, reason, reference string) (*model.StockMovement, error) {
	if quantity > product.StockQuantity {
		quantity = product.StockQuantity
	}
	return l.apply(tx, actor, product, model.MovementOut, quantity, reason, reference)
}

// lockProducts locks the given products in ascending id order
func lockProducts(tx *gorm.DB, products repository.ProductRepository, tenantID string, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	locked := make(map[uuid.UUID]*model.Product, len(ids))
	for _, id := range repository.SortIDs(ids) {
		p, err := products.LockByID(tx, tenantID, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		if err != nil {
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

// StockMovementInput is a manual movement from the back office
type StockMovementInput struct {
	ProductID      uuid.UUID          `json:"product_id" validate:"uuid_required"`
	Type           model.MovementType `json:"type" validate:"required,oneof=IN OUT ADJUST"`
	Quantity       int                `json:"quantity" validate:"gte=0"`
	Reason         string             `json:"reason" validate:"max=255"`
	Reference      string             `json:"reference" validate:"max=100"`
	IdempotencyKey string             `json:"idempotency_key" validate:"omitempty,max=255"`
}

type StockMovementResult struct {
	ProductID     uuid.UUID            `json:"product_id"`
	PreviousStock int                  `json:"previous_stock"`
	NewStock      int                  `json:"new_stock"`
	Movement      *model.StockMovement `json:"movement,omitempty"`
}

type StockService interface {
	ApplyMovement(ctx context.Context, actor Actor, input StockMovementInput) (*StockMovementResult, error)
	StockHistory(ctx context.Context, actor Actor, productID uuid.UUID) ([]model.StockMovement, error)
}

type stockService struct {
	*engine
}

func NewStockService(d Deps) StockService {
	return &stockService{newEngine(d)}
}

func (s *stockService) ApplyMovement(ctx context.Context, actor Actor, input StockMovementInput) (*StockMovementResult, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if input.Reason == "" {
		input.Reason = "Manual stock " + string(input.Type)
	}

	var (
		result  StockMovementResult
		product *model.Product
	)
	err := s.inTx(ctx, actor, opApplyMovement, func(tx *gorm.DB) error {
		claim, err := s.claim(tx, actor, opApplyMovement, input.IdempotencyKey)
		if err != nil {
			return err
		}
		locked, err := lockProducts(tx, s.repos.Products, actor.TenantID, []uuid.UUID{input.ProductID})
		if err != nil {
			return err
		}
		product = locked[input.ProductID]

		result.ProductID = product.ID
		result.PreviousStock = product.StockQuantity
		movement, err := s.stock.apply(tx, actor, product, input.Type, input.Quantity, input.Reason, input.Reference)
		if err != nil {
			return err
		}
		result.NewStock = product.StockQuantity
		result.Movement = movement

		ref := product.ID.String()
		if movement != nil {
			ref = movement.ID.String()
		}
		return s.settle(tx, claim, ref)
	})
	if err != nil {
		return nil, err
	}

	if result.Movement != nil {
		s.afterMovements(actor, []*model.StockMovement{result.Movement}, map[uuid.UUID]*model.Product{product.ID: product})
		s.publish(actor, Event{
			Type:   "stock_update",
			Action: "movement_recorded",
			Data:   result,
			Message: fmt.Sprintf("%s recorded %s %d of '%s' (%d -> %d)",
				actor.Name, result.Movement.Type, result.Movement.Quantity, product.Name, result.PreviousStock, result.NewStock),
		})
	}
	return &result, nil
}

func (s *stockService) StockHistory(ctx context.Context, actor Actor, productID uuid.UUID) ([]model.StockMovement, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	if _, err := s.repos.Products.FindByID(ctx, actor.TenantID, productID); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	movements, err := s.repos.Movements.FindByProduct(ctx, actor.TenantID, productID)
	if err != nil {
		return nil, translateDBError(err)
	}
	return movements, nil
}
