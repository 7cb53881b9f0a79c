package handler

import (
	"go-inventory-ledger/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the ledger API
type Handlers struct {
	Inventory *InventoryHandler
	Orders    *OrderHandler
	Payments  *PaymentHandler
	Purchases *PurchaseHandler
	Parties   *PartyHandler
}

// Register mounts the ledger routes on router, which must already carry RequireAuth
func Register(router fiber.Router, h Handlers) {
	// Product & stock routes
	router.Get("/products/low-stock", middleware.RequirePrivilege(middleware.PrivilegeProductView), h.Inventory.GetLowStock)
	router.Post("/products", middleware.RequirePrivilege(middleware.PrivilegeProductCreate), h.Inventory.CreateProduct)
	router.Get("/products/:id", middleware.RequirePrivilege(middleware.PrivilegeProductView), h.Inventory.GetProduct)
	router.Put("/products/:id", middleware.RequirePrivilege(middleware.PrivilegeProductUpdate), h.Inventory.UpdateProduct)
	router.Post("/products/:id/stock", middleware.RequirePrivilege(middleware.PrivilegeStockAdjust), h.Inventory.RecordMovement)
	router.Get("/products/:id/stock-movements", middleware.RequirePrivilege(middleware.PrivilegeProductView), h.Inventory.GetStockMovements)

	// Order routes
	router.Post("/orders", middleware.RequirePrivilege(middleware.PrivilegeOrderCreate), h.Orders.CreateOrder)
	router.Get("/orders/:id", middleware.RequirePrivilege(middleware.PrivilegeOrderView), h.Orders.GetOrder)
	router.Delete("/orders/:id", middleware.RequirePrivilege(middleware.PrivilegeOrderDelete), h.Orders.DeleteOrder)

	// Payment routes
	router.Post("/payments/invoice", middleware.RequirePrivilege(middleware.PrivilegePaymentCollect), h.Payments.CollectForInvoice)
	router.Post("/payments/customer", middleware.RequirePrivilege(middleware.PrivilegePaymentCollect), h.Payments.CollectForCustomer)

	// Purchase routes
	router.Post("/purchases", middleware.RequirePrivilege(middleware.PrivilegePurchaseManage), h.Purchases.CreatePurchase)
	router.Get("/purchases/:id", middleware.RequirePrivilege(middleware.PrivilegePurchaseView), h.Purchases.GetPurchase)
	router.Put("/purchases/:id", middleware.RequirePrivilege(middleware.PrivilegePurchaseManage), h.Purchases.UpdatePurchase)
	router.Delete("/purchases/:id", middleware.RequirePrivilege(middleware.PrivilegePurchaseManage), h.Purchases.DeletePurchase)

	// Customer routes
	router.Post("/customers", middleware.RequirePrivilege(middleware.PrivilegeCustomerManage), h.Parties.CreateCustomer)
	router.Get("/customers/:id", middleware.RequirePrivilege(middleware.PrivilegeCustomerView), h.Parties.GetCustomer)
	router.Delete("/customers/:id", middleware.RequirePrivilege(middleware.PrivilegeCustomerManage), h.Parties.DeleteCustomer)
	router.Get("/customers/:id/invoices", middleware.RequireAnyPrivilege(middleware.PrivilegeCustomerView, middleware.PrivilegeOrderView), h.Orders.GetCustomerInvoices)
	router.Get("/customers/:id/payments", middleware.RequireAnyPrivilege(middleware.PrivilegeCustomerView, middleware.PrivilegePaymentView), h.Payments.GetCustomerPayments)

	// Supplier routes
	router.Post("/suppliers", middleware.RequirePrivilege(middleware.PrivilegeSupplierManage), h.Parties.CreateSupplier)
	router.Get("/suppliers/:id", middleware.RequirePrivilege(middleware.PrivilegeSupplierView), h.Parties.GetSupplier)
	router.Delete("/suppliers/:id", middleware.RequirePrivilege(middleware.PrivilegeSupplierManage), h.Parties.DeleteSupplier)
}
