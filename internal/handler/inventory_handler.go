package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	catalog service.CatalogService
	stock   service.StockService
}

func NewInventoryHandler(catalog service.CatalogService, stock service.StockService) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, stock: stock}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "product")
	}
	product, err := h.catalog.GetProduct(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "product")
	}
	var input service.ProductUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), getActor(c), id, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.catalog.LowStockProducts(c.UserContext(), getActor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// RecordMovement handles POST /products/:id/stock (IN, OUT or ADJUST)
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "product")
	}
	var input service.StockMovementInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	input.ProductID = id
	input.IdempotencyKey = idempotencyKey(c, input.IdempotencyKey)

	result, err := h.stock.ApplyMovement(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock movement recorded", "data": result})
}

func (h *InventoryHandler) GetStockMovements(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "product")
	}
	movements, err := h.stock.StockHistory(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(movements)
}
