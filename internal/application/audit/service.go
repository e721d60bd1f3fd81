package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/shared"
)

// ListInput contains the audit log query parameters
type ListInput struct {
	Entity  string
	Action  string
	ActorID *uuid.UUID
	Page    shared.Page
}

// Service exposes the read side of the audit trail
type Service struct {
	repo audit.Repository
}

// NewService creates an audit query service
func NewService(repo audit.Repository) *Service {
	return &Service{repo: repo}
}

// List returns audit logs newest first
func (s *Service) List(ctx context.Context, input ListInput) (shared.Paginated[audit.LogDetail], error) {
	filter := audit.Filter{
		Entity:  input.Entity,
		ActorID: input.ActorID,
		Page:    input.Page,
	}
	if input.Action != "" {
		action := audit.Action(input.Action)
		if !action.IsValid() {
			return shared.Paginated[audit.LogDetail]{}, shared.NewValidationError(
				shared.FieldError{Field: "action", Message: "Action must be CREATE, UPDATE, DELETE, LOGIN or LOGOUT"})
		}
		filter.Action = action
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[audit.LogDetail]{}, err
	}
	return shared.NewPaginated(logs, total, input.Page), nil
}

// Get returns one audit log with its actor
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*audit.LogDetail, error) {
	return s.repo.FindByID(ctx, id)
}
