package middleware

// Privilege codes carried in the token's "privileges" claim
const (
	PrivilegeAll = "*"

	PrivilegeProductView   = "product:view"
	PrivilegeProductCreate = "product:create"
	PrivilegeProductUpdate = "product:update"
	PrivilegeStockAdjust   = "stock:adjust"

	PrivilegeOrderView   = "order:view"
	PrivilegeOrderCreate = "order:create"
	PrivilegeOrderDelete = "order:delete"

	PrivilegePaymentView    = "payment:view"
	PrivilegePaymentCollect = "payment:collect"

	PrivilegePurchaseView   = "purchase:view"
	PrivilegePurchaseManage = "purchase:manage"

	PrivilegeCustomerView   = "customer:view"
	PrivilegeCustomerManage = "customer:manage"

	PrivilegeSupplierView   = "supplier:view"
	PrivilegeSupplierManage = "supplier:manage"
)

// DefaultPrivileges lists every code, used by cmd/issue-token for an all-access token
var DefaultPrivileges = []string{
	PrivilegeProductView, PrivilegeProductCreate, PrivilegeProductUpdate, PrivilegeStockAdjust,
	PrivilegeOrderView, PrivilegeOrderCreate, PrivilegeOrderDelete,
	PrivilegePaymentView, PrivilegePaymentCollect,
	PrivilegePurchaseView, PrivilegePurchaseManage,
	PrivilegeCustomerView, PrivilegeCustomerManage,
	PrivilegeSupplierView, PrivilegeSupplierManage,
}
