package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSubjectRepository implements academic.SubjectRepository using GORM
type GormSubjectRepository struct {
	db *gorm.DB
}

// NewGormSubjectRepository creates a new GormSubjectRepository
func NewGormSubjectRepository(db *gorm.DB) *GormSubjectRepository {
	return &GormSubjectRepository{db: db}
}

// FindByID finds a subject by ID
func (r *GormSubjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Subject, error) {
	var model models.SubjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, academic.ErrSubjectNotFound)
	}
	return model.ToDomain(), nil
}

// CountByIDs counts how many of ids exist
func (r *GormSubjectRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SubjectModel{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// List returns subjects matching filter
func (r *GormSubjectRepository) List(ctx context.Context, filter academic.SubjectFilter) ([]academic.Subject, int64, error) {
	query := searchAny(r.db.WithContext(ctx).Model(&models.SubjectModel{}), filter.Search, "name", "code")

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SubjectModel
	query = applySort(query, "subjects", filter.Sort, SubjectSortColumns, "name")
	if err := paginate(query, filter.Page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	subjects := make([]academic.Subject, len(rows))
	for i := range rows {
		subjects[i] = *rows[i].ToDomain()
	}
	return subjects, total, nil
}

// Create inserts a subject
func (r *GormSubjectRepository) Create(ctx context.Context, s *academic.Subject) error {
	return TranslateError(r.db.WithContext(ctx).Create(models.SubjectModelFromDomain(s)).Error)
}

// Save updates a subject
func (r *GormSubjectRepository) Save(ctx context.Context, s *academic.Subject) error {
	return updateRow(ctx, r.db, models.SubjectModelFromDomain(s), academic.ErrSubjectNotFound)
}

// Delete removes a subject
func (r *GormSubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.db, &models.SubjectModel{}, id, academic.ErrSubjectNotFound)
}
