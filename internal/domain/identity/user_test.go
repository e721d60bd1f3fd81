package identity

import (
	"errors"
	"testing"

	"github.com/school/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		u, err := NewUser("  Jane Doe ", " Jane@School.EDU ", "secret123", RoleStaff)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", u.Name)
		assert.Equal(t, "jane@school.edu", u.Email)
		assert.Equal(t, RoleStaff, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "secret123", u.PasswordHash)
		assert.True(t, u.VerifyPassword("secret123"))
		assert.False(t, u.VerifyPassword("wrong-pass"))
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		_, err := NewUser("J", "not-an-email", "short", Role("JANITOR"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		fields, ok := de.Details.([]shared.FieldError)
		require.True(t, ok)
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, f.Field)
		}
		assert.ElementsMatch(t, []string{"name", "email", "role", "password"}, names)
	})

	t.Run("rejects passwords longer than bcrypt accepts", func(t *testing.T) {
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}
		_, err := NewUser("Jane", "jane@school.edu", string(long), RoleStaff)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser("Jane", "jane@school.edu", "secret123", RoleAdmin)
	require.NoError(t, err)
	before := u.UpdatedAt

	err = u.ChangePassword("wrong-pass", "newsecret1")
	assert.ErrorIs(t, err, ErrInvalidCurrentPassword)
	assert.True(t, u.VerifyPassword("secret123"))

	require.NoError(t, u.ChangePassword("secret123", "newsecret1"))
	assert.True(t, u.VerifyPassword("newsecret1"))
	assert.False(t, u.UpdatedAt.Before(before))

	assert.ErrorIs(t, u.ChangePassword("newsecret1", "short"), shared.ErrValidation)
}

func TestUser_DeactivateReactivate(t *testing.T) {
	u, err := NewUser("Jane", "jane@school.edu", "secret123", RoleStaff)
	require.NoError(t, err)

	u.Deactivate()
	assert.False(t, u.IsActive)
	u.Reactivate()
	assert.True(t, u.IsActive)
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleSuperAdmin.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleStaff.IsValid())
	assert.False(t, Role("TEACHER").IsValid())
	assert.False(t, Role("").IsValid())
}
