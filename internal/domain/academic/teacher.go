package academic

import (
	"strings"

	"github.com/school/backend/internal/domain/shared"
)

// TeacherStatus is the employment state of a teacher
type TeacherStatus string

const (
	TeacherActive   TeacherStatus = "ACTIVE"
	TeacherInactive TeacherStatus = "INACTIVE"
	TeacherOnLeave  TeacherStatus = "ON_LEAVE"
)

// IsValid reports whether s is a known teacher status
func (s TeacherStatus) IsValid() bool {
	switch s {
	case TeacherActive, TeacherInactive, TeacherOnLeave:
		return true
	}
	return false
}

// Teacher is a member of the teaching staff. EmployeeID never changes
// after creation.
type Teacher struct {
	shared.BaseEntity
	EmployeeID     string        `json:"employeeId"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Specialization string        `json:"specialization"`
	Qualification  string        `json:"qualification"`
	Status         TeacherStatus `json:"status"`
}

// TeacherFields carries optional teacher attributes for create and update
type TeacherFields struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	Specialization *string
	Qualification  *string
	Status         *TeacherStatus
}

// NewTeacher creates an ACTIVE teacher
func NewTeacher(employeeID string, f TeacherFields) (*Teacher, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, shared.NewValidationError(shared.FieldError{Field: "employeeId", Message: "Employee ID is required"})
	}
	if f.FirstName == nil || f.LastName == nil || f.Email == nil {
		return nil, shared.NewValidationError(shared.FieldError{Field: "firstName", Message: "Name and email are required"})
	}
	t := &Teacher{
		BaseEntity: shared.NewBaseEntity(),
		EmployeeID: employeeID,
		Status:     TeacherActive,
	}
	if err := t.Apply(f); err != nil {
		return nil, err
	}
	return t, nil
}

// Apply validates and copies the non-nil fields onto the teacher
func (t *Teacher) Apply(f TeacherFields) error {
	var errs []shared.FieldError
	if f.FirstName != nil && len(strings.TrimSpace(*f.FirstName)) < 2 {
		errs = append(errs, shared.FieldError{Field: "firstName", Message: "First name must be at least 2 characters"})
	}
	if f.LastName != nil && len(strings.TrimSpace(*f.LastName)) < 2 {
		errs = append(errs, shared.FieldError{Field: "lastName", Message: "Last name must be at least 2 characters"})
	}
	if f.Email != nil && !ValidEmail(strings.TrimSpace(*f.Email)) {
		errs = append(errs, shared.FieldError{Field: "email", Message: "Invalid email format"})
	}
	if f.Status != nil && !f.Status.IsValid() {
		errs = append(errs, shared.FieldError{Field: "status", Message: "Invalid teacher status"})
	}
	if len(errs) > 0 {
		return shared.NewValidationError(errs...)
	}

	if f.FirstName != nil {
		t.FirstName = strings.TrimSpace(*f.FirstName)
	}
	if f.LastName != nil {
		t.LastName = strings.TrimSpace(*f.LastName)
	}
	if f.Email != nil {
		t.Email = strings.ToLower(strings.TrimSpace(*f.Email))
	}
	if f.Phone != nil {
		t.Phone = *f.Phone
	}
	if f.Specialization != nil {
		t.Specialization = *f.Specialization
	}
	if f.Qualification != nil {
		t.Qualification = *f.Qualification
	}
	if f.Status != nil {
		t.Status = *f.Status
	}
	t.Touch()
	return nil
}

// FullName returns "First Last"
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
