package authz

import "dealdesk/internal/lifecycle"

const (
	RoleSeller   = 10
	RoleApprover = 20
	RoleLegal    = 30
	RoleAdmin    = 50
)

// IsElevated reports whether the role may see and touch deals it does not own.
func IsElevated(roleID int) bool {
	return roleID == RoleApprover || roleID == RoleLegal || roleID == RoleAdmin
}

// LifecycleRole maps the numeric JWT role onto the lifecycle vocabulary.
// Unknown IDs map to an empty role, which the guard denies.
func LifecycleRole(roleID int) lifecycle.Role {
	switch roleID {
	case RoleSeller:
		return lifecycle.RoleSeller
	case RoleApprover:
		return lifecycle.RoleApprover
	case RoleLegal:
		return lifecycle.RoleLegal
	case RoleAdmin:
		return lifecycle.RoleAdmin
	}
	return ""
}
