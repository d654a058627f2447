package models

const (
	RoleUser       = "user"
	RoleVendor     = "vendor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// IsAdminRole reports whether role grants access to the operator panel.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
