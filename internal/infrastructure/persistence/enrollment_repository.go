package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEnrollmentRepository implements academic.EnrollmentRepository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// CreateWithinCapacity inserts e if the class still has room. The class
// row is locked FOR UPDATE on PostgreSQL so concurrent enrollments into
// the same class serialize on the capacity check.
func (r *GormEnrollmentRepository) CreateWithinCapacity(ctx context.Context, e *academic.Enrollment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classQuery := tx
		if supportsRowLocks(tx) {
			classQuery = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
		}
		var class models.ClassSectionModel
		if err := classQuery.First(&class, "id = ?", e.ClassSectionID).Error; err != nil {
			return notFound(err, academic.ErrClassNotFound)
		}

		var enrolled int64
		if err := tx.Model(&models.EnrollmentModel{}).
			Where("class_section_id = ? AND academic_year = ?", e.ClassSectionID, e.AcademicYear).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if err := class.ToDomain().CheckCapacity(enrolled); err != nil {
			return err
		}

		return TranslateError(tx.Create(models.EnrollmentModelFromDomain(e)).Error)
	})
}

// FindByID finds an enrollment by ID
func (r *GormEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Enrollment, error) {
	var model models.EnrollmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, academic.ErrEnrollmentNotFound)
	}
	return model.ToDomain(), nil
}

// List returns enrollments with their student and class, newest first
func (r *GormEnrollmentRepository) List(ctx context.Context, filter academic.EnrollmentFilter) ([]academic.EnrollmentDetail, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EnrollmentModel{})
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.ClassSectionID != nil {
		query = query.Where("class_section_id = ?", *filter.ClassSectionID)
	}
	if filter.AcademicYear != "" {
		query = query.Where("academic_year = ?", filter.AcademicYear)
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EnrollmentModel
	if err := paginate(query, filter.Page).
		Preload("Student").Preload("ClassSection").
		Order("created_at DESC").Order("id").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	details := make([]academic.EnrollmentDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].ToDetail()
	}
	return details, total, nil
}

// Delete removes an enrollment
func (r *GormEnrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.db, &models.EnrollmentModel{}, id, academic.ErrEnrollmentNotFound)
}
