package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStudentRepository implements academic.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Student, error) {
	var model models.StudentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, academic.ErrStudentNotFound)
	}
	return model.ToDomain(), nil
}

// FindRefs loads the identities of the given students keyed by id.
// Unknown ids are absent from the map.
func (r *GormStudentRepository) FindRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]academic.StudentRef, error) {
	refs := make(map[uuid.UUID]academic.StudentRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var rows []models.StudentModel
	if err := r.db.WithContext(ctx).
		Select("id", "student_number", "first_name", "last_name").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		refs[rows[i].ID] = rows[i].ToRef()
	}
	return refs, nil
}

// List returns students matching filter
func (r *GormStudentRepository) List(ctx context.Context, filter academic.StudentFilter) ([]academic.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StudentModel{})
	if filter.Status != "" {
		query = query.Where("students.status = ?", filter.Status)
	}
	if filter.ClassSectionID != nil {
		query = query.Where("students.id IN (?)",
			r.db.Model(&models.EnrollmentModel{}).Select("student_id").Where("class_section_id = ?", *filter.ClassSectionID))
	}
	query = searchAny(query, filter.Search,
		"students.first_name", "students.last_name", "students.student_number", "students.email")

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StudentModel
	query = applySort(query, "students", filter.Sort, StudentSortColumns, "created_at")
	if err := paginate(query, filter.Page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	students := make([]academic.Student, len(rows))
	for i := range rows {
		students[i] = *rows[i].ToDomain()
	}
	return students, total, nil
}

// Create inserts a student. Duplicate student ids or emails become DUPLICATE_ENTRY.
func (r *GormStudentRepository) Create(ctx context.Context, s *academic.Student) error {
	return TranslateError(r.db.WithContext(ctx).Create(models.StudentModelFromDomain(s)).Error)
}

// Save updates a student
func (r *GormStudentRepository) Save(ctx context.Context, s *academic.Student) error {
	return updateRow(ctx, r.db, models.StudentModelFromDomain(s), academic.ErrStudentNotFound)
}

// Delete removes a student and, through cascading keys, their enrollments,
// attendance, fees and marks.
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.db, &models.StudentModel{}, id, academic.ErrStudentNotFound)
}
