package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

func (h *PaymentHandler) CollectForInvoice(c *fiber.Ctx) error {
	var input service.InvoicePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	input.IdempotencyKey = idempotencyKey(c, input.IdempotencyKey)

	payment, err := h.service.CollectPaymentForInvoice(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Payment collected", "data": payment})
}

func (h *PaymentHandler) CollectForCustomer(c *fiber.Ctx) error {
	var input service.CustomerPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return invalidJSON(c)
	}
	input.IdempotencyKey = idempotencyKey(c, input.IdempotencyKey)

	payment, err := h.service.CollectPaymentForCustomer(c.UserContext(), getActor(c), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Payment collected", "data": payment})
}

func (h *PaymentHandler) GetCustomerPayments(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badID(c, "customer")
	}
	payments, err := h.service.ListCustomerPayments(c.UserContext(), getActor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payments)
}
