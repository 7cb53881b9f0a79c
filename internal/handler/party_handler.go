package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PartyHandler serves customers and suppliers
type PartyHandler struct {
	catalog service.CatalogService
}

func NewPartyHandler(catalog service.CatalogService) *PartyHandler {
	return &PartyHandler{catalog: catalog}
}

func (h *PartyHandler) CreateCustomer(c *fiber.Ctx) error {
	var input service.CustomerInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.catalog.CreateCustomer(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *PartyHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "customer")
	}
	customer, err := h.catalog.GetCustomer(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

func (h *PartyHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "customer")
	}
	if err := h.catalog.DeleteCustomer(c.UserContext(), getActor(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

func (h *PartyHandler) CreateSupplier(c *fiber.Ctx) error {
	var input service.SupplierInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	supplier, err := h.catalog.CreateSupplier(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *PartyHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "supplier")
	}
	supplier, err := h.catalog.GetSupplier(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(supplier)
}

func (h *PartyHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "supplier")
	}
	if err := h.catalog.DeleteSupplier(c.UserContext(), getActor(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
