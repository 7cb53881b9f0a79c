package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	service service.PurchaseService
}

func NewPurchaseHandler(s service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var input service.PurchaseInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	input.IdempotencyKey = idempotencyKey(c, input.IdempotencyKey)

	purchase, err := h.service.CreatePurchase(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Purchase created", "data": purchase})
}

func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "purchase")
	}
	purchase, err := h.service.GetPurchase(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(purchase)
}

func (h *PurchaseHandler) UpdatePurchase(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "purchase")
	}
	var input service.PurchaseInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	input.IdempotencyKey = idempotencyKey(c, input.IdempotencyKey)

	purchase, err := h.service.UpdatePurchase(c.UserContext(), getActor(c), id, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase updated", "data": purchase})
}

func (h *PurchaseHandler) DeletePurchase(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "purchase")
	}
	if err := h.service.DeletePurchase(c.UserContext(), getActor(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase deleted"})
}
