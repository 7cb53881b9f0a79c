package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(signer *jwt.Signer) *fiber.App {
	app := fiber.New()
	app.Use(middleware.RequireAuth(signer))
	app.Get("/orders", middleware.RequirePrivilege(middleware.PrivilegeOrderView), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("tenant_id").(string))
	})
	app.Get("/invoices", middleware.RequireAnyPrivilege(middleware.PrivilegeCustomerView, middleware.PrivilegeOrderView), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	signer := jwt.NewSigner("secret", "ledger", time.Hour)
	app := newAuthApp(signer)

	valid, err := signer.GenerateToken(uuid.New(), "tenant-a", "a@b.c", "Ani", []string{middleware.PrivilegeOrderView})
	require.NoError(t, err)
	unscoped, err := signer.GenerateToken(uuid.New(), "", "a@b.c", "Ani", []string{middleware.PrivilegeOrderView})
	require.NoError(t, err)
	foreign, err := jwt.NewSigner("other", "ledger", time.Hour).GenerateToken(uuid.New(), "tenant-a", "", "", nil)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/orders", ""))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/orders", foreign))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/orders", unscoped))
	assert.Equal(t, fiber.StatusOK, call(t, app, "/orders", valid))
	assert.Equal(t, fiber.StatusOK, call(t, app, "/invoices", valid))

	req := httptest.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Token "+valid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePrivilege(t *testing.T) {
	signer := jwt.NewSigner("secret", "ledger", time.Hour)
	app := newAuthApp(signer)

	payOnly, err := signer.GenerateToken(uuid.New(), "tenant-a", "", "", []string{middleware.PrivilegePaymentCollect})
	require.NoError(t, err)
	admin, err := signer.GenerateToken(uuid.New(), "tenant-a", "", "", []string{middleware.PrivilegeAll})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/orders", payOnly))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/invoices", payOnly))
	assert.Equal(t, fiber.StatusOK, call(t, app, "/orders", admin))
	assert.Equal(t, fiber.StatusOK, call(t, app, "/invoices", admin))
}
