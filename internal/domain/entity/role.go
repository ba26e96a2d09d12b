// Package entity contains the core business objects of the project.
package entity

// Role represents the single role a principal holds in the system.
type Role string

const (
	// RoleUser indicates a regular diner account.
	RoleUser Role = "user"
	// RoleStoreManager indicates staff managing the menu of a restaurant.
	RoleStoreManager Role = "storeManager"
	// RoleAdmin indicates a restaurant owner.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin indicates a platform operator.
	RoleSuperAdmin Role = "superAdmin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleStoreManager, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// AllRoles lists every role in ascending order of privilege.
func AllRoles() []Role {
	return []Role{RoleUser, RoleStoreManager, RoleAdmin, RoleSuperAdmin}
}
