package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	audit      *appaudit.Recorder
	logger     *zap.Logger
	metrics    LoginMetrics
	now        func() time.Time
}

// LoginMetrics receives login outcomes
type LoginMetrics interface {
	RecordLogin(ctx context.Context, success bool)
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		audit:      recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// SetMetrics reports login outcomes to m
func (s *AuthService) SetMetrics(m LoginMetrics) {
	s.metrics = m
}

func (s *AuthService) recordLogin(ctx context.Context, success bool) {
	if s.metrics != nil {
		s.metrics.RecordLogin(ctx, success)
	}
}

// Login authenticates a user and issues an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller; the active
// check runs only after the password has been verified.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
			s.recordLogin(ctx, false)
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		s.recordLogin(ctx, false)
		return nil, identity.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		s.recordLogin(ctx, false)
		return nil, identity.ErrAccountDeactivated
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.ErrInternal.WithMessage("Failed to generate authentication token")
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		ActorID:  &user.ID,
		Action:   audit.ActionLogin,
		Entity:   audit.EntityUser,
		EntityID: user.ID.String(),
		Summary:  user.Name + " logged in",
	})

	s.recordLogin(ctx, true)
	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))

	return &LoginResult{
		Token:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserDTO(user),
	}, nil
}

// Me returns the current state of the authenticated account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI != "" {
		ttl := input.ExpiresAt.Sub(s.now())
		if ttl > 0 {
			if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
				s.logger.Error("Failed to blacklist token", zap.Error(err))
				return shared.ErrInternal.WithMessage("Failed to revoke token")
			}
		}
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		ActorID:  &input.UserID,
		Action:   audit.ActionLogout,
		Entity:   audit.EntityUser,
		EntityID: input.UserID.String(),
		Summary:  "User logged out",
	})
	return nil
}

// ChangePassword replaces the password of the authenticated account after
// verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		if errors.Is(err, identity.ErrInvalidCurrentPassword) {
			s.logger.Warn("Password change with wrong current password", zap.String("user_id", user.ID.String()))
		}
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		ActorID:  &user.ID,
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityUser,
		EntityID: user.ID.String(),
		Summary:  "Changed own password",
	})
	return nil
}
