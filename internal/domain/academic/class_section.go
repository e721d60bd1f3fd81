package academic

import (
	"strings"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

// DefaultCapacity is used when a class is created without a capacity
const DefaultCapacity = 40

// ClassStatus marks whether a class section is in use
type ClassStatus string

const (
	ClassActive   ClassStatus = "ACTIVE"
	ClassInactive ClassStatus = "INACTIVE"
)

// IsValid reports whether s is a known class status
func (s ClassStatus) IsValid() bool {
	return s == ClassActive || s == ClassInactive
}

// ErrClassFull is returned when an enrollment would exceed capacity
var ErrClassFull = shared.NewDomainError("CLASS_FULL", "Class is at full capacity")

// Not-found errors for the academic context
var (
	ErrStudentNotFound    = shared.NewDomainError("STUDENT_NOT_FOUND", "Student not found")
	ErrTeacherNotFound    = shared.NewDomainError("TEACHER_NOT_FOUND", "Teacher not found")
	ErrClassNotFound      = shared.NewDomainError("CLASS_NOT_FOUND", "Class not found")
	ErrSubjectNotFound    = shared.NewDomainError("SUBJECT_NOT_FOUND", "Subject not found")
	ErrEnrollmentNotFound = shared.NewDomainError("ENROLLMENT_NOT_FOUND", "Enrollment not found")
)

// ClassSection is one teaching group for an academic year, e.g. "Grade 5" section "A"
type ClassSection struct {
	shared.BaseEntity
	Name           string      `json:"name"`
	Section        string      `json:"section"`
	Grade          string      `json:"grade"`
	AcademicYear   string      `json:"academicYear"`
	RoomNumber     string      `json:"roomNumber"`
	Capacity       int         `json:"capacity"`
	ClassTeacherID *uuid.UUID  `json:"classTeacherId"`
	Status         ClassStatus `json:"status"`
}

// ClassFields carries optional class attributes for create and update.
// ClearTeacher unassigns the class teacher.
type ClassFields struct {
	Name           *string
	Section        *string
	Grade          *string
	AcademicYear   *string
	RoomNumber     *string
	Capacity       *int
	ClassTeacherID *uuid.UUID
	ClearTeacher   bool
	Status         *ClassStatus
}

// NewClassSection creates an ACTIVE class with the default capacity unless one is given
func NewClassSection(f ClassFields) (*ClassSection, error) {
	var errs []shared.FieldError
	if f.Name == nil {
		errs = append(errs, shared.FieldError{Field: "name", Message: "Class name is required"})
	}
	if f.Grade == nil {
		errs = append(errs, shared.FieldError{Field: "grade", Message: "Grade is required"})
	}
	if f.AcademicYear == nil {
		errs = append(errs, shared.FieldError{Field: "academicYear", Message: "Academic year is required"})
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError(errs...)
	}
	c := &ClassSection{
		BaseEntity: shared.NewBaseEntity(),
		Capacity:   DefaultCapacity,
		Status:     ClassActive,
	}
	if err := c.Apply(f); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply validates and copies the non-nil fields onto the class
func (c *ClassSection) Apply(f ClassFields) error {
	var errs []shared.FieldError
	required := func(v *string, field, msg string) {
		if v != nil && strings.TrimSpace(*v) == "" {
			errs = append(errs, shared.FieldError{Field: field, Message: msg})
		}
	}
	required(f.Name, "name", "Class name is required")
	required(f.Grade, "grade", "Grade is required")
	required(f.AcademicYear, "academicYear", "Academic year is required")
	if f.Capacity != nil && *f.Capacity <= 0 {
		errs = append(errs, shared.FieldError{Field: "capacity", Message: "Capacity must be a positive number"})
	}
	if f.Status != nil && !f.Status.IsValid() {
		errs = append(errs, shared.FieldError{Field: "status", Message: "Status must be ACTIVE or INACTIVE"})
	}
	if len(errs) > 0 {
		return shared.NewValidationError(errs...)
	}

	if f.Name != nil {
		c.Name = strings.TrimSpace(*f.Name)
	}
	if f.Section != nil {
		c.Section = strings.TrimSpace(*f.Section)
	}
	if f.Grade != nil {
		c.Grade = strings.TrimSpace(*f.Grade)
	}
	if f.AcademicYear != nil {
		c.AcademicYear = strings.TrimSpace(*f.AcademicYear)
	}
	if f.RoomNumber != nil {
		c.RoomNumber = *f.RoomNumber
	}
	if f.Capacity != nil {
		c.Capacity = *f.Capacity
	}
	switch {
	case f.ClearTeacher:
		c.ClassTeacherID = nil
	case f.ClassTeacherID != nil:
		id := *f.ClassTeacherID
		c.ClassTeacherID = &id
	}
	if f.Status != nil {
		c.Status = *f.Status
	}
	c.Touch()
	return nil
}

// DisplayName returns the name with its section, e.g. "Grade 5 - A"
func (c *ClassSection) DisplayName() string {
	if c.Section == "" {
		return c.Name
	}
	return c.Name + " - " + c.Section
}

// CheckCapacity returns ErrClassFull when enrolled already fills the class
func (c *ClassSection) CheckCapacity(enrolled int64) error {
	if enrolled >= int64(c.Capacity) {
		return ErrClassFull
	}
	return nil
}

// FillPercentage returns enrolled/capacity as a percentage with two
// decimals, or 0 for a class without capacity.
func FillPercentage(enrolled int64, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return shared.Round2(float64(enrolled) / float64(capacity) * 100)
}
