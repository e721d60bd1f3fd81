package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClassRepository implements academic.ClassRepository using GORM
type GormClassRepository struct {
	db *gorm.DB
}

// NewGormClassRepository creates a new GormClassRepository
func NewGormClassRepository(db *gorm.DB) *GormClassRepository {
	return &GormClassRepository{db: db}
}

// FindByID finds a class section by ID
func (r *GormClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.ClassSection, error) {
	var model models.ClassSectionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, academic.ErrClassNotFound)
	}
	return model.ToDomain(), nil
}

// List returns class sections matching filter
func (r *GormClassRepository) List(ctx context.Context, filter academic.ClassFilter) ([]academic.ClassSection, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClassSectionModel{})
	if filter.AcademicYear != "" {
		query = query.Where("academic_year = ?", filter.AcademicYear)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = searchAny(query, filter.Search, "name", "section", "grade")

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ClassSectionModel
	query = applySort(query, "class_sections", filter.Sort, ClassSortColumns, "name")
	if err := paginate(query, filter.Page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	classes := make([]academic.ClassSection, len(rows))
	for i := range rows {
		classes[i] = *rows[i].ToDomain()
	}
	return classes, total, nil
}

// Create inserts a class section
func (r *GormClassRepository) Create(ctx context.Context, c *academic.ClassSection) error {
	return TranslateError(r.db.WithContext(ctx).Create(models.ClassSectionModelFromDomain(c)).Error)
}

// Save updates a class section
func (r *GormClassRepository) Save(ctx context.Context, c *academic.ClassSection) error {
	return updateRow(ctx, r.db, models.ClassSectionModelFromDomain(c), academic.ErrClassNotFound)
}

// Delete removes a class section together with its enrollments and subject links
func (r *GormClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.db, &models.ClassSectionModel{}, id, academic.ErrClassNotFound)
}

// EnrolledCounts returns the enrollment count per class. Classes without
// enrollments are absent from the map.
func (r *GormClassRepository) EnrolledCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		ClassSectionID uuid.UUID
		Count          int64
	}
	if err := r.db.WithContext(ctx).Model(&models.EnrollmentModel{}).
		Select("class_section_id, COUNT(*) AS count").
		Where("class_section_id IN ?", ids).
		Group("class_section_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ClassSectionID] = row.Count
	}
	return counts, nil
}

// Subjects lists the subjects taught in a class, by name
func (r *GormClassRepository) Subjects(ctx context.Context, classID uuid.UUID) ([]academic.Subject, error) {
	var rows []models.SubjectModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN class_subjects ON class_subjects.subject_id = subjects.id").
		Where("class_subjects.class_section_id = ?", classID).
		Order("subjects.name").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	subjects := make([]academic.Subject, len(rows))
	for i := range rows {
		subjects[i] = *rows[i].ToDomain()
	}
	return subjects, nil
}

// ReplaceSubjects swaps the subject set of a class in one transaction
func (r *GormClassRepository) ReplaceSubjects(ctx context.Context, classID uuid.UUID, subjectIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_section_id = ?", classID).Delete(&models.ClassSubjectModel{}).Error; err != nil {
			return err
		}
		if len(subjectIDs) == 0 {
			return nil
		}
		links := make([]models.ClassSubjectModel, len(subjectIDs))
		for i, id := range subjectIDs {
			links[i] = models.ClassSubjectModel{ClassSectionID: classID, SubjectID: id}
		}
		return TranslateError(tx.Create(&links).Error)
	})
}
