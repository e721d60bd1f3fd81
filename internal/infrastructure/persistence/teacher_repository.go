package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTeacherRepository implements academic.TeacherRepository using GORM
type GormTeacherRepository struct {
	db *gorm.DB
}

// NewGormTeacherRepository creates a new GormTeacherRepository
func NewGormTeacherRepository(db *gorm.DB) *GormTeacherRepository {
	return &GormTeacherRepository{db: db}
}

// FindByID finds a teacher by ID
func (r *GormTeacherRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Teacher, error) {
	var model models.TeacherModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, academic.ErrTeacherNotFound)
	}
	return model.ToDomain(), nil
}

// List returns teachers matching filter
func (r *GormTeacherRepository) List(ctx context.Context, filter academic.TeacherFilter) ([]academic.Teacher, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TeacherModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = searchAny(query, filter.Search, "first_name", "last_name", "employee_id", "email", "specialization")

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TeacherModel
	query = applySort(query, "teachers", filter.Sort, TeacherSortColumns, "created_at")
	if err := paginate(query, filter.Page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	teachers := make([]academic.Teacher, len(rows))
	for i := range rows {
		teachers[i] = *rows[i].ToDomain()
	}
	return teachers, total, nil
}

// Create inserts a teacher
func (r *GormTeacherRepository) Create(ctx context.Context, t *academic.Teacher) error {
	return TranslateError(r.db.WithContext(ctx).Create(models.TeacherModelFromDomain(t)).Error)
}

// Save updates a teacher. The employee id column is never rewritten.
func (r *GormTeacherRepository) Save(ctx context.Context, t *academic.Teacher) error {
	model := models.TeacherModelFromDomain(t)
	result := r.db.WithContext(ctx).Model(model).
		Select("*").Omit("id", "created_at", "employee_id").
		Updates(model)
	if result.Error != nil {
		return TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return academic.ErrTeacherNotFound
	}
	return nil
}

// Delete removes a teacher; classes they led keep a NULL class teacher
func (r *GormTeacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.db, &models.TeacherModel{}, id, academic.ErrTeacherNotFound)
}
