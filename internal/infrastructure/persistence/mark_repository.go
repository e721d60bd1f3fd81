package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/assessment"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMarkRepository implements assessment.Repository using GORM
type GormMarkRepository struct {
	db *gorm.DB
}

// NewGormMarkRepository creates a new GormMarkRepository
func NewGormMarkRepository(db *gorm.DB) *GormMarkRepository {
	return &GormMarkRepository{db: db}
}

// Upsert writes all marks in one transaction; the first failure rolls
// back the whole batch.
func (r *GormMarkRepository) Upsert(ctx context.Context, marks []*assessment.Mark) ([]assessment.MarkDetail, error) {
	if len(marks) == 0 {
		return []assessment.MarkDetail{}, nil
	}

	var stored []models.MarkModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		onConflict := clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}, {Name: "exam_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"marks", "remarks", "updated_at"}),
		}
		for _, m := range marks {
			if err := tx.Clauses(onConflict).Create(models.MarkModelFromDomain(m)).Error; err != nil {
				return TranslateError(err)
			}
		}

		keys := tx.Where("1 = 0")
		for _, m := range marks {
			keys = keys.Or("student_id = ? AND subject_id = ? AND exam_name = ?", m.StudentID, m.SubjectID, m.ExamName)
		}
		return tx.Preload("Student").Preload("Subject").
			Where(keys).
			Order("created_at").Order("id").
			Find(&stored).Error
	})
	if err != nil {
		return nil, err
	}

	details := make([]assessment.MarkDetail, len(stored))
	for i := range stored {
		details[i] = stored[i].ToDetail()
	}
	return details, nil
}

// List orders by subject name then exam name
func (r *GormMarkRepository) List(ctx context.Context, filter assessment.Filter) ([]assessment.MarkDetail, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN subjects ON subjects.id = marks.subject_id")
	if filter.StudentID != nil {
		query = query.Where("marks.student_id = ?", *filter.StudentID)
	}
	if filter.SubjectID != nil {
		query = query.Where("marks.subject_id = ?", *filter.SubjectID)
	}
	if filter.ClassSectionID != nil {
		query = query.Where("marks.student_id IN (?)",
			r.db.Model(&models.EnrollmentModel{}).
				Select("student_id").
				Where("class_section_id = ?", *filter.ClassSectionID))
	}
	if filter.ExamName != "" {
		query = query.Where("marks.exam_name = ?", filter.ExamName)
	}

	var rows []models.MarkModel
	if err := query.
		Preload("Student").Preload("Subject").
		Order("subjects.name").Order("marks.exam_name").Order("marks.id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]assessment.MarkDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].ToDetail()
	}
	return details, nil
}

// Delete removes a mark
func (r *GormMarkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.db, &models.MarkModel{}, id, assessment.ErrMarkNotFound)
}
