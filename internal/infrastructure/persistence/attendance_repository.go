package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttendanceRepository implements attendance.Repository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Upsert relies on the (student_id, date) unique index: concurrent marks
// for the same day race inside the database, never in the application.
func (r *GormAttendanceRepository) Upsert(ctx context.Context, rec *attendance.Record) (*attendance.RecordDetail, error) {
	model := models.AttendanceModelFromDomain(rec)
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "remarks", "class_section_id", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return nil, TranslateError(err)
	}

	var stored models.AttendanceModel
	if err := db.Preload("Student").Preload("ClassSection").
		Where("student_id = ? AND date = ?", rec.StudentID, datatypes.Date(attendance.Day(rec.Date))).
		First(&stored).Error; err != nil {
		return nil, TranslateError(err)
	}
	detail := stored.ToDetail()
	return &detail, nil
}

// FindByID finds a record by ID
func (r *GormAttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Record, error) {
	var model models.AttendanceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, attendance.ErrNotFound)
	}
	return model.ToDomain(), nil
}

// Save updates status and remarks of an existing record
func (r *GormAttendanceRepository) Save(ctx context.Context, rec *attendance.Record) error {
	result := r.db.WithContext(ctx).Model(&models.AttendanceModel{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"status":     rec.Status,
			"remarks":    rec.Remarks,
			"updated_at": rec.UpdatedAt,
		})
	if result.Error != nil {
		return TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return attendance.ErrNotFound
	}
	return nil
}

// List returns records matching filter, most recent day first
func (r *GormAttendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.RecordDetail, int64, error) {
	query := r.filtered(ctx, filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AttendanceModel
	if err := paginate(query, filter.Page).
		Preload("Student").Preload("ClassSection").
		Order("date DESC").Order("created_at DESC").Order("id").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	details := make([]attendance.RecordDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].ToDetail()
	}
	return details, total, nil
}

// CountByStatus groups the records matching filter by status
func (r *GormAttendanceRepository) CountByStatus(ctx context.Context, filter attendance.Filter) (map[attendance.Status]int64, error) {
	var rows []struct {
		Status attendance.Status
		Count  int64
	}
	if err := r.filtered(ctx, filter).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[attendance.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *GormAttendanceRepository) filtered(ctx context.Context, filter attendance.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.AttendanceModel{})
	if filter.ClassSectionID != nil {
		query = query.Where("class_section_id = ?", *filter.ClassSectionID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	switch {
	case filter.Date != nil:
		query = query.Where("date = ?", dateValue(*filter.Date))
	default:
		if filter.From != nil {
			query = query.Where("date >= ?", dateValue(*filter.From))
		}
		if filter.To != nil {
			query = query.Where("date <= ?", dateValue(*filter.To))
		}
	}
	return query
}

func dateValue(t time.Time) datatypes.Date {
	return datatypes.Date(attendance.Day(t))
}
