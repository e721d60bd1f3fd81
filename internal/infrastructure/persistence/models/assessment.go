package models

import (
	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/assessment"
)

// MarkModel is the persistence model for the Mark domain entity
type MarkModel struct {
	BaseModel
	StudentID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_mark_student_subject_exam,priority:1"`
	SubjectID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_mark_student_subject_exam,priority:2;index"`
	ExamName  string        `gorm:"type:varchar(100);not null;uniqueIndex:idx_mark_student_subject_exam,priority:3"`
	Marks     float64       `gorm:"type:numeric(5,2);not null"`
	Remarks   string        `gorm:"type:text"`
	Student   *StudentModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Subject   *SubjectModel `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (MarkModel) TableName() string {
	return "marks"
}

// ToDomain converts the persistence model to a domain Mark entity
func (m *MarkModel) ToDomain() *assessment.Mark {
	return &assessment.Mark{
		BaseEntity: m.BaseModel.ToDomain(),
		StudentID:  m.StudentID,
		SubjectID:  m.SubjectID,
		ExamName:   m.ExamName,
		Marks:      m.Marks,
		Remarks:    m.Remarks,
	}
}

// ToDetail converts a model loaded with its Student and Subject
func (m *MarkModel) ToDetail() assessment.MarkDetail {
	d := assessment.MarkDetail{Mark: *m.ToDomain()}
	if m.Student != nil {
		d.Student = m.Student.ToRef()
	}
	if m.Subject != nil {
		d.Subject = assessment.SubjectRef{ID: m.Subject.ID, Name: m.Subject.Name, Code: m.Subject.Code}
	}
	return d
}

// MarkModelFromDomain creates a new persistence model from a domain Mark entity
func MarkModelFromDomain(mk *assessment.Mark) *MarkModel {
	m := &MarkModel{
		StudentID: mk.StudentID,
		SubjectID: mk.SubjectID,
		ExamName:  mk.ExamName,
		Marks:     mk.Marks,
		Remarks:   mk.Remarks,
	}
	m.FromDomainBaseEntity(mk.BaseEntity)
	return m
}
