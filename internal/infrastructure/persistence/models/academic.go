package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
)

// StudentModel is the persistence model for the Student domain entity
type StudentModel struct {
	BaseModel
	StudentNumber string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	FirstName     string                 `gorm:"type:varchar(100);not null"`
	LastName      string                 `gorm:"type:varchar(100);not null"`
	Email         *string                `gorm:"type:varchar(255);uniqueIndex"`
	Phone         string                 `gorm:"type:varchar(50)"`
	DateOfBirth   *time.Time             `gorm:"type:date"`
	Gender        academic.Gender        `gorm:"type:varchar(10)"`
	Address       string                 `gorm:"type:text"`
	GuardianName  string                 `gorm:"type:varchar(100)"`
	GuardianPhone string                 `gorm:"type:varchar(50)"`
	GuardianEmail *string                `gorm:"type:varchar(255)"`
	Status        academic.StudentStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student entity
func (m *StudentModel) ToDomain() *academic.Student {
	return &academic.Student{
		BaseEntity:    m.BaseModel.ToDomain(),
		StudentID:     m.StudentNumber,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Email:         m.Email,
		Phone:         m.Phone,
		DateOfBirth:   m.DateOfBirth,
		Gender:        m.Gender,
		Address:       m.Address,
		GuardianName:  m.GuardianName,
		GuardianPhone: m.GuardianPhone,
		GuardianEmail: m.GuardianEmail,
		Status:        m.Status,
	}
}

// ToRef returns the minimal identity of the student
func (m *StudentModel) ToRef() academic.StudentRef {
	return academic.StudentRef{ID: m.ID, StudentID: m.StudentNumber, FirstName: m.FirstName, LastName: m.LastName}
}

// FromDomain populates the persistence model from a domain Student entity
func (m *StudentModel) FromDomain(s *academic.Student) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.StudentNumber = s.StudentID
	m.FirstName = s.FirstName
	m.LastName = s.LastName
	m.Email = s.Email
	m.Phone = s.Phone
	m.DateOfBirth = s.DateOfBirth
	m.Gender = s.Gender
	m.Address = s.Address
	m.GuardianName = s.GuardianName
	m.GuardianPhone = s.GuardianPhone
	m.GuardianEmail = s.GuardianEmail
	m.Status = s.Status
}

// StudentModelFromDomain creates a new persistence model from a domain Student entity
func StudentModelFromDomain(s *academic.Student) *StudentModel {
	m := &StudentModel{}
	m.FromDomain(s)
	return m
}

// TeacherModel is the persistence model for the Teacher domain entity
type TeacherModel struct {
	BaseModel
	EmployeeID     string                 `gorm:"column:employee_id;type:varchar(50);not null;uniqueIndex"`
	FirstName      string                 `gorm:"type:varchar(100);not null"`
	LastName       string                 `gorm:"type:varchar(100);not null"`
	Email          string                 `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone          string                 `gorm:"type:varchar(50)"`
	Specialization string                 `gorm:"type:varchar(100)"`
	Qualification  string                 `gorm:"type:varchar(100)"`
	Status         academic.TeacherStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (TeacherModel) TableName() string {
	return "teachers"
}

// ToDomain converts the persistence model to a domain Teacher entity
func (m *TeacherModel) ToDomain() *academic.Teacher {
	return &academic.Teacher{
		BaseEntity:     m.BaseModel.ToDomain(),
		EmployeeID:     m.EmployeeID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		Specialization: m.Specialization,
		Qualification:  m.Qualification,
		Status:         m.Status,
	}
}

// FromDomain populates the persistence model from a domain Teacher entity
func (m *TeacherModel) FromDomain(t *academic.Teacher) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.EmployeeID = t.EmployeeID
	m.FirstName = t.FirstName
	m.LastName = t.LastName
	m.Email = t.Email
	m.Phone = t.Phone
	m.Specialization = t.Specialization
	m.Qualification = t.Qualification
	m.Status = t.Status
}

// TeacherModelFromDomain creates a new persistence model from a domain Teacher entity
func TeacherModelFromDomain(t *academic.Teacher) *TeacherModel {
	m := &TeacherModel{}
	m.FromDomain(t)
	return m
}

// SubjectModel is the persistence model for the Subject domain entity
type SubjectModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
	Code string `gorm:"type:varchar(20);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (SubjectModel) TableName() string {
	return "subjects"
}

// ToDomain converts the persistence model to a domain Subject entity
func (m *SubjectModel) ToDomain() *academic.Subject {
	return &academic.Subject{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name, Code: m.Code}
}

// SubjectModelFromDomain creates a new persistence model from a domain Subject entity
func SubjectModelFromDomain(s *academic.Subject) *SubjectModel {
	m := &SubjectModel{Name: s.Name, Code: s.Code}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// ClassSectionModel is the persistence model for the ClassSection domain entity
type ClassSectionModel struct {
	BaseModel
	Name           string               `gorm:"type:varchar(100);not null;uniqueIndex:idx_class_name_section_year,priority:1"`
	Section        string               `gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_class_name_section_year,priority:2"`
	Grade          string               `gorm:"type:varchar(20);not null"`
	AcademicYear   string               `gorm:"type:varchar(20);not null;uniqueIndex:idx_class_name_section_year,priority:3;index"`
	RoomNumber     string               `gorm:"type:varchar(20)"`
	Capacity       int                  `gorm:"not null;default:40"`
	ClassTeacherID *uuid.UUID           `gorm:"type:uuid;index"`
	ClassTeacher   *TeacherModel        `gorm:"foreignKey:ClassTeacherID;constraint:OnDelete:SET NULL"`
	Status         academic.ClassStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (ClassSectionModel) TableName() string {
	return "class_sections"
}

// ToDomain converts the persistence model to a domain ClassSection entity
func (m *ClassSectionModel) ToDomain() *academic.ClassSection {
	return &academic.ClassSection{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		Section:        m.Section,
		Grade:          m.Grade,
		AcademicYear:   m.AcademicYear,
		RoomNumber:     m.RoomNumber,
		Capacity:       m.Capacity,
		ClassTeacherID: m.ClassTeacherID,
		Status:         m.Status,
	}
}

// ToRef returns the minimal identity of the class
func (m *ClassSectionModel) ToRef() academic.ClassRef {
	return academic.ClassRef{ID: m.ID, Name: m.Name, Section: m.Section, AcademicYear: m.AcademicYear}
}

// FromDomain populates the persistence model from a domain ClassSection entity
func (m *ClassSectionModel) FromDomain(c *academic.ClassSection) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Section = c.Section
	m.Grade = c.Grade
	m.AcademicYear = c.AcademicYear
	m.RoomNumber = c.RoomNumber
	m.Capacity = c.Capacity
	m.ClassTeacherID = c.ClassTeacherID
	m.Status = c.Status
}

// ClassSectionModelFromDomain creates a new persistence model from a domain ClassSection entity
func ClassSectionModelFromDomain(c *academic.ClassSection) *ClassSectionModel {
	m := &ClassSectionModel{}
	m.FromDomain(c)
	return m
}

// ClassSubjectModel joins class sections and subjects
type ClassSubjectModel struct {
	ClassSectionID uuid.UUID          `gorm:"type:uuid;primaryKey"`
	SubjectID      uuid.UUID          `gorm:"type:uuid;primaryKey"`
	ClassSection   *ClassSectionModel `gorm:"foreignKey:ClassSectionID;constraint:OnDelete:CASCADE"`
	Subject        *SubjectModel      `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ClassSubjectModel) TableName() string {
	return "class_subjects"
}

// EnrollmentModel is the persistence model for the Enrollment domain entity
type EnrollmentModel struct {
	BaseModel
	StudentID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_class_year,priority:1"`
	ClassSectionID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_class_year,priority:2;index"`
	AcademicYear   string             `gorm:"type:varchar(20);not null;uniqueIndex:idx_enrollment_student_class_year,priority:3"`
	Student        *StudentModel      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	ClassSection   *ClassSectionModel `gorm:"foreignKey:ClassSectionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (EnrollmentModel) TableName() string {
	return "enrollments"
}

// ToDomain converts the persistence model to a domain Enrollment entity
func (m *EnrollmentModel) ToDomain() *academic.Enrollment {
	return &academic.Enrollment{
		BaseEntity:     m.BaseModel.ToDomain(),
		StudentID:      m.StudentID,
		ClassSectionID: m.ClassSectionID,
		AcademicYear:   m.AcademicYear,
	}
}

// ToDetail converts a model loaded with its Student and ClassSection
func (m *EnrollmentModel) ToDetail() academic.EnrollmentDetail {
	d := academic.EnrollmentDetail{Enrollment: *m.ToDomain()}
	if m.Student != nil {
		d.Student = m.Student.ToRef()
	}
	if m.ClassSection != nil {
		d.Class = m.ClassSection.ToRef()
	}
	return d
}

// EnrollmentModelFromDomain creates a new persistence model from a domain Enrollment entity
func EnrollmentModelFromDomain(e *academic.Enrollment) *EnrollmentModel {
	m := &EnrollmentModel{
		StudentID:      e.StudentID,
		ClassSectionID: e.ClassSectionID,
		AcademicYear:   e.AcademicYear,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
