package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/finance"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/domain/report"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardReader implements report.DashboardReader using GORM
type GormDashboardReader struct {
	db *gorm.DB
}

// NewGormDashboardReader creates a new GormDashboardReader
func NewGormDashboardReader(db *gorm.DB) *GormDashboardReader {
	return &GormDashboardReader{db: db}
}

// CountActiveStudents counts students with status ACTIVE
func (r *GormDashboardReader) CountActiveStudents(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.StudentModel{}).
		Where("status = ?", academic.StudentActive).
		Count(&n).Error
	return n, err
}

// CountTeachers counts every teacher
func (r *GormDashboardReader) CountTeachers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.TeacherModel{}).Count(&n).Error
	return n, err
}

// CountClasses counts every class section
func (r *GormDashboardReader) CountClasses(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ClassSectionModel{}).Count(&n).Error
	return n, err
}

// CountStaff counts active ADMIN and STAFF accounts
func (r *GormDashboardReader) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("role IN ? AND is_active = ?", []identity.Role{identity.RoleAdmin, identity.RoleStaff}, true).
		Count(&n).Error
	return n, err
}

// AttendanceBreakdown counts records with from <= date <= to by status
func (r *GormDashboardReader) AttendanceBreakdown(ctx context.Context, from, to time.Time) (report.StatusBreakdown, error) {
	var rows []struct {
		Status attendance.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.AttendanceModel{}).
		Select("status, COUNT(*) AS count").
		Where("date >= ? AND date <= ?", dateValue(from), dateValue(to)).
		Group("status").
		Scan(&rows).Error; err != nil {
		return report.StatusBreakdown{}, err
	}

	var b report.StatusBreakdown
	for _, row := range rows {
		switch row.Status {
		case attendance.StatusPresent:
			b.Present = row.Count
		case attendance.StatusAbsent:
			b.Absent = row.Count
		case attendance.StatusLate:
			b.Late = row.Count
		}
	}
	return b, nil
}

// OutstandingFees returns the count and total balance of fees not PAID
func (r *GormDashboardReader) OutstandingFees(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Count   int64
		Balance decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.FeeModel{}).
		Select("COUNT(*) AS count, SUM(amount - paid_amount) AS balance").
		Where("status <> ?", finance.FeePaid).
		Scan(&row).Error; err != nil {
		return 0, decimal.Zero, err
	}
	return row.Count, row.Balance.Decimal, nil
}

// RecentActivity returns the newest audit entries with actor names
func (r *GormDashboardReader) RecentActivity(ctx context.Context, limit int) ([]report.Activity, error) {
	var rows []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Preload("Actor").
		Order("created_at DESC").Order("id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	activity := make([]report.Activity, len(rows))
	for i, row := range rows {
		actor := report.SystemActor
		if row.Actor != nil {
			actor = row.Actor.Name
		}
		activity[i] = report.Activity{
			ID:        row.ID,
			Action:    string(row.Action),
			Entity:    row.Entity,
			Summary:   row.Summary,
			Actor:     actor,
			CreatedAt: row.CreatedAt,
		}
	}
	return activity, nil
}

// ClassEnrollments returns every class with its enrolled count, by name
func (r *GormDashboardReader) ClassEnrollments(ctx context.Context) ([]report.ClassFill, error) {
	var rows []struct {
		ID       uuid.UUID
		Name     string
		Section  string
		Capacity int
		Enrolled int64
	}
	if err := r.db.WithContext(ctx).Model(&models.ClassSectionModel{}).
		Select("class_sections.id, class_sections.name, class_sections.section, class_sections.capacity, COUNT(enrollments.id) AS enrolled").
		Joins("LEFT JOIN enrollments ON enrollments.class_section_id = class_sections.id AND enrollments.academic_year = class_sections.academic_year").
		Group("class_sections.id, class_sections.name, class_sections.section, class_sections.capacity").
		Order("class_sections.name").Order("class_sections.section").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	fills := make([]report.ClassFill, 0, len(rows))
	for _, row := range rows {
		c := academic.ClassSection{Name: row.Name, Section: row.Section}
		fills = append(fills, report.ClassFill{
			ID:       row.ID,
			Name:     c.DisplayName(),
			Capacity: row.Capacity,
			Enrolled: row.Enrolled,
		})
	}
	return fills, nil
}
