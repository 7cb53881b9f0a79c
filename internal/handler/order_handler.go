package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var input service.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	input.IdempotencyKey = idempotencyKey(c, input.IdempotencyKey)

	order, err := h.service.CreateOrder(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order created", "data": order})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "order")
	}
	order, err := h.service.GetOrder(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "order")
	}
	if err := h.service.DeleteOrder(c.UserContext(), getActor(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}

func (h *OrderHandler) GetCustomerInvoices(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "customer")
	}
	orders, err := h.service.ListCustomerInvoices(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}
