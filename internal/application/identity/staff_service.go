package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StaffService manages user accounts on behalf of an actor
type StaffService struct {
	userRepo identity.UserRepository
	audit    *appaudit.Recorder
	logger   *zap.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(userRepo identity.UserRepository, recorder *appaudit.Recorder, logger *zap.Logger) *StaffService {
	return &StaffService{userRepo: userRepo, audit: recorder, logger: logger}
}

// Create adds a staff account. Only a SUPER_ADMIN may create ADMIN accounts.
func (s *StaffService) Create(ctx context.Context, actor *identity.User, input CreateStaffInput) (*UserDTO, error) {
	role := identity.Role(input.Role)
	if err := identity.CanCreate(actor.Role, role); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrDuplicateEmail
	}

	user, err := identity.NewUser(input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("created_by", actor.ID.String()))
	s.record(ctx, actor, user, fmt.Sprintf("Created %s account for %s", user.Role, user.Email), audit.ActionCreate)

	dto := ToUserDTO(user)
	return &dto, nil
}

// List returns every account, SUPER_ADMIN included, newest first
func (s *StaffService) List(ctx context.Context, input ListStaffInput) (shared.Paginated[UserDTO], error) {
	filter := identity.UserFilter{
		Search: input.Search,
		Page:   input.Page,
	}
	if input.Role != "" {
		role := identity.Role(input.Role)
		if !role.IsValid() {
			return shared.Paginated[UserDTO]{}, shared.NewValidationError(shared.FieldError{Field: "role", Message: "Invalid role"})
		}
		filter.Role = role
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[UserDTO]{}, err
	}
	return shared.NewPaginated(toUserDTOs(users), total, input.Page), nil
}

// Deactivate disables sign-in for the target account
func (s *StaffService) Deactivate(ctx context.Context, actor *identity.User, targetID uuid.UUID) (*UserDTO, error) {
	return s.mutate(ctx, actor, targetID, func(target *identity.User) (string, error) {
		if err := identity.CanDeactivate(actor.ID, actor.Role, target); err != nil {
			return "", err
		}
		target.Deactivate()
		return "Deactivated account " + target.Email, nil
	})
}

// Reactivate re-enables sign-in for the target account
func (s *StaffService) Reactivate(ctx context.Context, actor *identity.User, targetID uuid.UUID) (*UserDTO, error) {
	return s.mutate(ctx, actor, targetID, func(target *identity.User) (string, error) {
		if err := identity.CanReactivate(actor.Role, target); err != nil {
			return "", err
		}
		target.Reactivate()
		return "Reactivated account " + target.Email, nil
	})
}

// ResetPassword sets a new password on the target account
func (s *StaffService) ResetPassword(ctx context.Context, actor *identity.User, targetID uuid.UUID, newPassword string) (*UserDTO, error) {
	return s.mutate(ctx, actor, targetID, func(target *identity.User) (string, error) {
		if err := identity.CanResetPassword(actor.ID, actor.Role, target); err != nil {
			return "", err
		}
		if err := target.SetPassword(newPassword); err != nil {
			return "", err
		}
		return "Reset password for " + target.Email, nil
	})
}

func (s *StaffService) mutate(
	ctx context.Context,
	actor *identity.User,
	targetID uuid.UUID,
	apply func(target *identity.User) (string, error),
) (*UserDTO, error) {
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	summary, err := apply(target)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Info(summary, zap.String("user_id", target.ID.String()), zap.String("actor_id", actor.ID.String()))
	s.record(ctx, actor, target, summary, audit.ActionUpdate)

	dto := ToUserDTO(target)
	return &dto, nil
}

func (s *StaffService) record(ctx context.Context, actor, target *identity.User, summary string, action audit.Action) {
	s.audit.RecordBestEffort(ctx, audit.Entry{
		ActorID:  &actor.ID,
		Action:   action,
		Entity:   audit.EntityUser,
		EntityID: target.ID.String(),
		Summary:  summary,
		Metadata: map[string]any{"role": string(target.Role), "isActive": target.IsActive},
	})
}
