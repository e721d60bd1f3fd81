package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, identity.ErrUserNotFound)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, identity.ErrUserNotFound
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", email).
		First(&model).Error; err != nil {
		return nil, notFound(err, identity.ErrUserNotFound)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail reports whether an account uses email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("LOWER(email) = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns users matching filter, newest first
func (r *GormUserRepository) List(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	query = searchAny(query, filter.Search, "name", "email")

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserModel
	if err := paginate(query, filter.Page).
		Order("created_at DESC").Order("id").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

// Create inserts a new user. A taken email surfaces as DUPLICATE_EMAIL.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	err := TranslateError(r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error)
	if shared.IsDuplicate(err) {
		return identity.ErrDuplicateEmail
	}
	return err
}

// Save updates an existing user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return updateRow(ctx, r.db, models.UserModelFromDomain(user), identity.ErrUserNotFound)
}
