package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	opCreateProduct  = "create_product"
	opUpdateProduct  = "update_product"
	opCreateCustomer = "create_customer"
	opDeleteCustomer = "delete_customer"
	opCreateSupplier = "create_supplier"
	opDeleteSupplier = "delete_supplier"

	initialStockReason = "Initial stock on product creation"
	productEditReason  = "Direct adjustment from product edit"
)

type ProductInput struct {
	Type              model.ProductType `json:"type" validate:"omitempty,oneof=Product Service"`
	SKU               string            `json:"sku" validate:"required,max=50"`
	Name              string            `json:"name" validate:"required,max=255"`
	Description       string            `json:"description"`
	Unit              string            `json:"unit" validate:"max=20"`
	Price             decimal.Decimal   `json:"price" validate:"dgte0"`
	PurchasePrice     decimal.Decimal   `json:"purchase_price" validate:"dgte0"`
	InitialStock      int               `json:"initial_stock" validate:"gte=0"`
	LowStockThreshold *int              `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	SupplierID        *uuid.UUID        `json:"supplier_id"`
}

// ProductUpdateInput replaces the editable fields of a product. SKU and type are fixed
// after creation; a StockQuantity that differs from the current stock is booked as ADJUST.
type ProductUpdateInput struct {
	Name              string          `json:"name" validate:"required,max=255"`
	Description       string          `json:"description"`
	Unit              string          `json:"unit" validate:"max=20"`
	Price             decimal.Decimal `json:"price" validate:"dgte0"`
	PurchasePrice     decimal.Decimal `json:"purchase_price" validate:"dgte0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	StockQuantity     *int            `json:"stock_quantity" validate:"omitempty,gte=0"`
}

type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Address string `json:"address"`
}

type SupplierInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	CompanyName string `json:"company_name" validate:"max=255"`
	Phone       string `json:"phone" validate:"max=30"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Address     string `json:"address"`
}

type CatalogService interface {
	CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, input ProductUpdateInput) (*model.Product, error)
	LowStockProducts(ctx context.Context, actor Actor) ([]model.Product, error)
	CreateCustomer(ctx context.Context, actor Actor, input CustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, actor Actor, id uuid.UUID) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, actor Actor, id uuid.UUID) error
	CreateSupplier(ctx context.Context, actor Actor, input SupplierInput) (*model.Supplier, error)
	GetSupplier(ctx context.Context, actor Actor, id uuid.UUID) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, actor Actor, id uuid.UUID) error
}

type catalogService struct {
	*engine
}

func NewCatalogService(d Deps) CatalogService {
	return &catalogService{newEngine(d)}
}

func (s *catalogService) CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*model.Product, error) {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if input.Type == "" {
		input.Type = model.ProductTypeProduct
	}

	product := &model.Product{
		Type:              input.Type,
		SKU:               input.SKU,
		Name:              input.Name,
		Description:       input.Description,
		Unit:              input.Unit,
		Price:             input.Price,
		PurchasePrice:     input.PurchasePrice,
		LowStockThreshold: s.cfg.DefaultLowStockThreshold,
		SupplierID:        input.SupplierID,
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	product.TenantID = actor.TenantID
	product.CreatedBy = actor.UserID
	product.UpdatedBy = actor.UserID

	var movement *model.StockMovement
	err := s.inTx(ctx, actor, opCreateProduct, func(tx *gorm.DB) error {
		// 2. Cek Duplikasi SKU
		_, err := s.repos.Products.FindBySKU(tx, actor.TenantID, input.SKU)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, input.SKU)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if input.SupplierID != nil {
			ok, err := s.repos.Suppliers.Exists(tx, actor.TenantID, *input.SupplierID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrSupplierNotFound
			}
		}

		// 3. Simpan ke Database; stock starts at zero and enters through the ledger
		if err := s.repos.Products.Create(tx, product); err != nil {
			return err
		}
		if input.InitialStock > 0 && product.TracksStock() {
			movement, err = s.stock.apply(tx, actor, product, model.MovementIn, input.InitialStock, initialStockReason, "")
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if movement != nil {
		s.afterMovements(actor, []*model.StockMovement{movement}, nil)
	}
	s.publish(actor, Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    product,
		Message: fmt.Sprintf("%s created product '%s'", actor.Name, product.Name),
	})
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, actor Actor, id uuid.UUID) (*model.Product, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	product, err := s.repos.Products.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor Actor, id uuid.UUID, input ProductUpdateInput) (*model.Product, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var (
		product  *model.Product
		movement *model.StockMovement
	)
	err := s.inTx(ctx, actor, opUpdateProduct, func(tx *gorm.DB) error {
		var err error
		product, err = s.repos.Products.LockByID(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Unit = input.Unit
		product.Price = input.Price
		product.PurchasePrice = input.PurchasePrice
		if input.LowStockThreshold != nil {
			product.LowStockThreshold = *input.LowStockThreshold
		}
		product.UpdatedBy = actor.UserID
		if err := s.repos.Products.UpdateDetails(tx, product, actor.UserID); err != nil {
			return err
		}

		// stok tidak pernah ditulis langsung, selalu lewat ledger
		if input.StockQuantity != nil && *input.StockQuantity != product.StockQuantity {
			movement, err = s.stock.apply(tx, actor, product, model.MovementAdjust, *input.StockQuantity, productEditReason, "")
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if movement != nil {
		s.afterMovements(actor, []*model.StockMovement{movement}, map[uuid.UUID]*model.Product{product.ID: product})
	}
	s.publish(actor, Event{
		Type:    "stock_update",
		Action:  "product_updated",
		Data:    product,
		Message: fmt.Sprintf("%s updated product '%s'", actor.Name, product.Name),
	})
	return product, nil
}

func (s *catalogService) LowStockProducts(ctx context.Context, actor Actor) ([]model.Product, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	products, err := s.repos.Products.FindLowStock(ctx, actor.TenantID)
	if err != nil {
		return nil, translateDBError(err)
	}
	return products, nil
}

func (s *catalogService) CreateCustomer(ctx context.Context, actor Actor, input CustomerInput) (*model.Customer, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	customer := &model.Customer{
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
	}
	customer.TenantID = actor.TenantID
	customer.CreatedBy = actor.UserID
	customer.UpdatedBy = actor.UserID

	err := s.inTx(ctx, actor, opCreateCustomer, func(tx *gorm.DB) error {
		return s.repos.Customers.Create(tx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *catalogService) GetCustomer(ctx context.Context, actor Actor, id uuid.UUID) (*model.Customer, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	customer, err := s.repos.Customers.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	return customer, nil
}

// DeleteCustomer refuses while any non-deleted order references the customer
func (s *catalogService) DeleteCustomer(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.inTx(ctx, actor, opDeleteCustomer, func(tx *gorm.DB) error {
		customer, err := s.repos.Customers.LockByID(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrCustomerNotFound)
		}
		count, err := s.repos.Orders.CountByCustomer(tx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d order(s)", ErrCustomerHasOrders, count)
		}
		return s.repos.Customers.SoftDelete(tx, customer, actor.UserID)
	})
}

func (s *catalogService) CreateSupplier(ctx context.Context, actor Actor, input SupplierInput) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, validationError(errs)
	}
	supplier := &model.Supplier{
		Name:        input.Name,
		CompanyName: input.CompanyName,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
	}
	supplier.TenantID = actor.TenantID
	supplier.CreatedBy = actor.UserID
	supplier.UpdatedBy = actor.UserID

	err := s.inTx(ctx, actor, opCreateSupplier, func(tx *gorm.DB) error {
		return s.repos.Suppliers.Create(tx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *catalogService) GetSupplier(ctx context.Context, actor Actor, id uuid.UUID) (*model.Supplier, error) {
	if err := actor.check(); err != nil {
		return nil, err
	}
	supplier, err := s.repos.Suppliers.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}
	return supplier, nil
}

// DeleteSupplier refuses while any non-deleted purchase references the supplier
func (s *catalogService) DeleteSupplier(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.inTx(ctx, actor, opDeleteSupplier, func(tx *gorm.DB) error {
		supplier, err := s.repos.Suppliers.LockByID(tx, actor.TenantID, id)
		if err != nil {
			return notFound(err, ErrSupplierNotFound)
		}
		count, err := s.repos.Purchases.CountBySupplier(tx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d purchase(s)", ErrSupplierHasPurchases, count)
		}
		return s.repos.Suppliers.SoftDelete(tx, supplier, actor.UserID)
	})
}
