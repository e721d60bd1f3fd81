package identity

import (
	"context"
	"testing"

	"github.com/school/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStaffService_EnsureSuperAdmin(t *testing.T) {
	t.Run("creates the account once", func(t *testing.T) {
		svc, users, _ := newStaffFixture()
		users.On("ExistsByEmail", mock.Anything, "mirage@mirage.local").Return(false, nil).Once()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == identity.RoleSuperAdmin && u.IsActive && u.VerifyPassword("S3cure-pass")
		})).Return(nil).Once()

		created, err := svc.EnsureSuperAdmin(context.Background(), "Mirage", "mirage@mirage.local", "S3cure-pass")
		require.NoError(t, err)
		assert.True(t, created)
		users.AssertExpectations(t)
	})

	t.Run("existing account is left alone", func(t *testing.T) {
		svc, users, _ := newStaffFixture()
		users.On("ExistsByEmail", mock.Anything, "mirage@mirage.local").Return(true, nil)

		created, err := svc.EnsureSuperAdmin(context.Background(), "Mirage", "mirage@mirage.local", "S3cure-pass")
		require.NoError(t, err)
		assert.False(t, created)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("no password skips seeding", func(t *testing.T) {
		svc, users, _ := newStaffFixture()

		created, err := svc.EnsureSuperAdmin(context.Background(), "Mirage", "mirage@mirage.local", "")
		require.NoError(t, err)
		assert.False(t, created)
		users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}
