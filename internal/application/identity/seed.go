package identity

import (
	"context"

	"github.com/school/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// EnsureSuperAdmin creates the bootstrap SUPER_ADMIN account when no user
// with email exists. An empty password skips seeding. It reports whether
// an account was created.
func (s *StaffService) EnsureSuperAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if password == "" {
		s.logger.Warn("Super admin password not configured, skipping seed", zap.String("email", email))
		return false, nil
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Debug("Super admin already exists", zap.String("email", email))
		return false, nil
	}

	user, err := identity.NewUser(name, email, password, identity.RoleSuperAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("Super admin created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	return true, nil
}
