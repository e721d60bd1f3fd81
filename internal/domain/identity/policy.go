package identity

import (
	"slices"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

// Route allow-lists. A caller passes when its role is a member.
var (
	AdminOnly      = []Role{RoleSuperAdmin, RoleAdmin}
	SuperAdminOnly = []Role{RoleSuperAdmin}
	StaffAndAbove  = []Role{RoleSuperAdmin, RoleAdmin, RoleStaff}
)

// HasRole reports whether role is in allowed
func HasRole(role Role, allowed []Role) bool {
	return slices.Contains(allowed, role)
}

// CanCreate checks whether actor may create an account with the target role.
// SUPER_ADMIN accounts are never created through the API and only a
// SUPER_ADMIN may create another ADMIN.
func CanCreate(actor Role, target Role) error {
	switch {
	case !HasRole(actor, AdminOnly):
		return shared.ErrForbidden
	case target == RoleSuperAdmin:
		return shared.ErrForbidden.WithDetails("SUPER_ADMIN accounts cannot be created")
	case target == RoleAdmin && actor != RoleSuperAdmin:
		return shared.ErrForbidden.WithDetails("Only a SUPER_ADMIN can create ADMIN accounts")
	case !target.IsValid():
		return shared.NewValidationError(shared.FieldError{Field: "role", Message: "Invalid role"})
	}
	return nil
}

// CanDeactivate checks whether actor may deactivate target. Self
// deactivation is rejected before any role rule.
func CanDeactivate(actorID uuid.UUID, actor Role, target *User) error {
	if actorID == target.ID {
		return ErrSelfDeactivation
	}
	return canManage(actor, target)
}

// CanReactivate applies the same role rules as CanDeactivate
func CanReactivate(actor Role, target *User) error {
	return canManage(actor, target)
}

// CanResetPassword lets a SUPER_ADMIN reset only their own password;
// every other target follows the CanDeactivate role rules.
func CanResetPassword(actorID uuid.UUID, actor Role, target *User) error {
	if target.Role == RoleSuperAdmin && actorID == target.ID {
		return nil
	}
	return canManage(actor, target)
}

func canManage(actor Role, target *User) error {
	switch {
	case !HasRole(actor, AdminOnly):
		return shared.ErrForbidden
	case target.Role == RoleSuperAdmin:
		return shared.ErrForbidden.WithDetails("SUPER_ADMIN accounts cannot be modified")
	case target.Role == RoleAdmin && actor != RoleSuperAdmin:
		return shared.ErrForbidden.WithDetails("Only a SUPER_ADMIN can modify ADMIN accounts")
	}
	return nil
}
