package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleCustomer    = "customer"
	RoleOperator    = "operator"
	RoleTransport   = "transport_partner"
	RoleBroker      = "broker"
	RoleFinance     = "finance"
	RoleSuperAdmin  = "super_admin"
	RolePlatformOps = "platform_ops" // hidden role
)

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

func IsHiddenRole(role string) bool { return role == RolePlatformOps }
