package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func userWithRole(role Role) *User {
	return &User{BaseEntity: shared.NewBaseEntity(), Role: role, IsActive: true}
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(RoleStaff, StaffAndAbove))
	assert.False(t, HasRole(RoleStaff, AdminOnly))
	assert.True(t, HasRole(RoleAdmin, AdminOnly))
	assert.False(t, HasRole(RoleAdmin, SuperAdminOnly))
	assert.True(t, HasRole(RoleSuperAdmin, SuperAdminOnly))
}

func TestCanCreate(t *testing.T) {
	tests := []struct {
		name   string
		actor  Role
		target Role
		want   error
	}{
		{"super admin creates admin", RoleSuperAdmin, RoleAdmin, nil},
		{"super admin creates staff", RoleSuperAdmin, RoleStaff, nil},
		{"admin creates staff", RoleAdmin, RoleStaff, nil},
		{"admin cannot create admin", RoleAdmin, RoleAdmin, shared.ErrForbidden},
		{"nobody creates super admin", RoleSuperAdmin, RoleSuperAdmin, shared.ErrForbidden},
		{"staff cannot create", RoleStaff, RoleStaff, shared.ErrForbidden},
		{"unknown target role", RoleSuperAdmin, Role("X"), shared.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanCreate(tt.actor, tt.target)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCanDeactivate(t *testing.T) {
	t.Run("self deactivation is rejected first", func(t *testing.T) {
		self := userWithRole(RoleSuperAdmin)
		err := CanDeactivate(self.ID, RoleSuperAdmin, self)
		assert.ErrorIs(t, err, ErrSelfDeactivation)
	})

	tests := []struct {
		name   string
		actor  Role
		target Role
		want   error
	}{
		{"super admin target is protected", RoleSuperAdmin, RoleSuperAdmin, shared.ErrForbidden},
		{"admin cannot touch admin", RoleAdmin, RoleAdmin, shared.ErrForbidden},
		{"super admin deactivates admin", RoleSuperAdmin, RoleAdmin, nil},
		{"admin deactivates staff", RoleAdmin, RoleStaff, nil},
		{"staff cannot deactivate", RoleStaff, RoleStaff, shared.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDeactivate(uuid.New(), tt.actor, userWithRole(tt.target))
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCanReactivateAndReset(t *testing.T) {
	assert.NoError(t, CanReactivate(RoleAdmin, userWithRole(RoleStaff)))
	assert.ErrorIs(t, CanReactivate(RoleAdmin, userWithRole(RoleAdmin)), shared.ErrForbidden)
	assert.NoError(t, CanResetPassword(uuid.New(), RoleSuperAdmin, userWithRole(RoleAdmin)))
	assert.ErrorIs(t, CanResetPassword(uuid.New(), RoleAdmin, userWithRole(RoleAdmin)), shared.ErrForbidden)
	assert.ErrorIs(t, CanResetPassword(uuid.New(), RoleSuperAdmin, userWithRole(RoleSuperAdmin)), shared.ErrForbidden)

	self := userWithRole(RoleSuperAdmin)
	assert.NoError(t, CanResetPassword(self.ID, RoleSuperAdmin, self))
}
