package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/auth"
	"github.com/school/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	identity.BcryptCost = bcrypt.MinCost
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockAuditRepository records appended logs
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, l *audit.Log) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.LogDetail, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.LogDetail, int64, error) {
	args := m.Called(ctx, filter)
	return nil, 0, args.Error(2)
}

func newTestUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Test User", uuid.NewString()[:8]+"@school.test", "password123", role)
	require.NoError(t, err)
	return u
}

type authFixture struct {
	svc       *AuthService
	users     *MockUserRepository
	audits    *MockAuditRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
}

func newAuthFixture() *authFixture {
	users := new(MockUserRepository)
	audits := new(MockAuditRepository)
	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	recorder := appaudit.NewRecorder(audits, zap.NewNop())
	return &authFixture{
		svc:       NewAuthService(users, jwtSvc, blacklist, recorder, zap.NewNop()),
		users:     users,
		audits:    audits,
		jwt:       jwtSvc,
		blacklist: blacklist,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, identity.RoleAdmin)
	f.users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	f.audits.On("Append", mock.Anything, mock.MatchedBy(func(l *audit.Log) bool {
		return l.Action == audit.ActionLogin && *l.ActorID == user.ID
	})).Return(nil)

	result, err := f.svc.Login(context.Background(), LoginInput{Email: "  " + user.Email, Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, "ADMIN", result.User.Role)

	claims, err := f.jwt.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	f.audits.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, identity.RoleStaff)
	f.users.On("FindByEmail", mock.Anything, "ghost@school.test").Return(nil, identity.ErrUserNotFound)
	f.users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	_, errUnknown := f.svc.Login(context.Background(), LoginInput{Email: "ghost@school.test", Password: "password123"})
	_, errWrong := f.svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "wrong-password"})

	assert.ErrorIs(t, errUnknown, identity.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, identity.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	f.audits.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestAuthService_Login_DeactivatedChecksPasswordFirst(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, identity.RoleStaff)
	user.Deactivate()
	f.users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "password123"})
	assert.ErrorIs(t, err, identity.ErrAccountDeactivated)
}

func TestAuthService_Login_AuditFailureDoesNotBlock(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, identity.RoleAdmin)
	f.users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	f.audits.On("Append", mock.Anything, mock.Anything).Return(errors.New("audit table missing"))

	result, err := f.svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	f := newAuthFixture()
	f.users.On("FindByEmail", mock.Anything, "a@b.test").Return(nil, errors.New("connection refused"))

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "a@b.test", Password: "password123"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestAuthService_Me(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, identity.RoleStaff)
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	me, err := f.svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)
	assert.True(t, me.IsActive)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	userID := uuid.New()
	f.audits.On("Append", mock.Anything, mock.MatchedBy(func(l *audit.Log) bool {
		return l.Action == audit.ActionLogout
	})).Return(nil)

	err := f.svc.Logout(context.Background(), LogoutInput{
		UserID:    userID,
		TokenJTI:  "jti-123",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	revoked, err := f.blacklist.IsBlacklisted(context.Background(), "jti-123")
	require.NoError(t, err)
	assert.True(t, revoked)
	f.audits.AssertExpectations(t)
}

func TestAuthService_LogoutExpiredTokenSkipsBlacklist(t *testing.T) {
	f := newAuthFixture()
	f.audits.On("Append", mock.Anything, mock.Anything).Return(nil)

	err := f.svc.Logout(context.Background(), LogoutInput{
		UserID:    uuid.New(),
		TokenJTI:  "old",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	revoked, _ := f.blacklist.IsBlacklisted(context.Background(), "old")
	assert.False(t, revoked)
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, identity.RoleStaff)
		f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		f.users.On("Save", mock.Anything, user).Return(nil)
		f.audits.On("Append", mock.Anything, mock.Anything).Return(nil)

		err := f.svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "password123",
			NewPassword:     "new-password-1",
		})
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("new-password-1"))
		f.users.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, identity.RoleStaff)
		f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "nope-nope",
			NewPassword:     "new-password-1",
		})
		assert.ErrorIs(t, err, identity.ErrInvalidCurrentPassword)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("short new password", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, identity.RoleStaff)
		f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "password123",
			NewPassword:     "short",
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
