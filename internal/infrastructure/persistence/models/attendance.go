package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/attendance"
	"gorm.io/datatypes"
)

// AttendanceModel is the persistence model for an attendance record.
// (student_id, date) is unique so re-marking a day upserts.
type AttendanceModel struct {
	BaseModel
	StudentID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_student_date,priority:1"`
	ClassSectionID uuid.UUID          `gorm:"type:uuid;not null;index:idx_attendance_class_date,priority:1"`
	Date           datatypes.Date     `gorm:"not null;uniqueIndex:idx_attendance_student_date,priority:2;index:idx_attendance_class_date,priority:2"`
	Status         attendance.Status  `gorm:"type:varchar(1);not null"`
	Remarks        string             `gorm:"type:text"`
	Student        *StudentModel      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	ClassSection   *ClassSectionModel `gorm:"foreignKey:ClassSectionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AttendanceModel) TableName() string {
	return "attendance"
}

// ToDomain converts the persistence model to a domain Record
func (m *AttendanceModel) ToDomain() *attendance.Record {
	return &attendance.Record{
		BaseEntity:     m.BaseModel.ToDomain(),
		StudentID:      m.StudentID,
		ClassSectionID: m.ClassSectionID,
		Date:           attendance.Day(time.Time(m.Date)),
		Status:         m.Status,
		Remarks:        m.Remarks,
	}
}

// ToDetail converts a model loaded with its Student and ClassSection
func (m *AttendanceModel) ToDetail() attendance.RecordDetail {
	d := attendance.RecordDetail{Record: *m.ToDomain()}
	if m.Student != nil {
		d.Student = m.Student.ToRef()
	}
	if m.ClassSection != nil {
		d.Class = m.ClassSection.ToRef()
	}
	return d
}

// AttendanceModelFromDomain creates a new persistence model from a domain Record
func AttendanceModelFromDomain(r *attendance.Record) *AttendanceModel {
	m := &AttendanceModel{
		StudentID:      r.StudentID,
		ClassSectionID: r.ClassSectionID,
		Date:           datatypes.Date(attendance.Day(r.Date)),
		Status:         r.Status,
		Remarks:        r.Remarks,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
