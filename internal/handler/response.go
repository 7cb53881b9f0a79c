package handler

import (
	"errors"

	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getActor(c *fiber.Ctx) service.Actor {
	return service.Actor{
		TenantID: localString(c, "tenant_id", ""),
		UserID:   localString(c, "user_id", "system"),
		Name:     localString(c, "user_name", "Unknown"),
		Email:    localString(c, "user_email", ""),
	}
}

func localString(c *fiber.Ctx, key, fallback string) string {
	if v, ok := c.Locals(key).(string); ok && v != "" {
		return v
	}
	return fallback
}

// Helper untuk parse UUID dari path param
func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// StatusFor maps a service error to its HTTP status
func StatusFor(err error) int {
	switch service.Classify(err) {
	case service.ClassValidation:
		return fiber.StatusBadRequest
	case service.ClassNotFound:
		return fiber.StatusNotFound
	case service.ClassInsufficientStock, service.ClassInvariant:
		return fiber.StatusUnprocessableEntity
	case service.ClassConflict:
		if errors.Is(err, service.ErrDuplicateRequest) {
			return fiber.StatusConflict
		}
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the error body. Internal errors are not echoed to the client.
func fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	body := fiber.Map{"error": err.Error(), "code": service.Classify(err).String()}
	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		body["product_id"] = insufficient.ProductID
		body["requested"] = insufficient.Requested
		body["available"] = insufficient.Available
	}
	var duplicate *service.DuplicateRequestError
	if errors.As(err, &duplicate) {
		body["reference_id"] = duplicate.ReferenceID
	}
	return c.Status(status).JSON(body)
}

func badID(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + what + " ID"})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

// idempotencyKey lets clients send the key as a header instead of in the body
func idempotencyKey(c *fiber.Ctx, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.Get("Idempotency-Key")
}
