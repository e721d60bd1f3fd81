package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

// UserFilter narrows staff listings
type UserFilter struct {
	Role     Role
	IsActive *bool
	Search   string
	Page     shared.Page
}

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
}
