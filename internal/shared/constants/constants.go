package constants

// User roles. Admin and System operate across tenants; Staff is bound to the
// university carried in its token.
const (
	RoleAdmin  = "admin"
	RoleSystem = "system"
	RoleStaff  = "staff"
)

// Gin context keys set by the auth middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyTenantID = "tenant_id"
	ContextKeyUserRole = "user_role"
	ContextKeyClaims   = "claims"
)

// Casbin resources and actions for admin endpoints
const (
	ResourceUniversities = "universities"
	ResourceUsers        = "users"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)
