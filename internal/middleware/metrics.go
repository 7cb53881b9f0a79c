package middleware

import (
	"strconv"
	"time"

	"go-inventory-ledger/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request count and duration per route
func Metrics(rec *metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Route path keeps label cardinality bounded (":id" instead of the value)
		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		rec.RecordRequest(c.Method(), path, strconv.Itoa(status), time.Since(start))

		return err
	}
}
