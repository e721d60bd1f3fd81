package academic

import (
	"net/mail"
	"strings"
	"time"

	"github.com/school/backend/internal/domain/shared"
)

// Gender of a student
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// StudentStatus is the lifecycle state of a student record
type StudentStatus string

const (
	StudentActive      StudentStatus = "ACTIVE"
	StudentInactive    StudentStatus = "INACTIVE"
	StudentGraduated   StudentStatus = "GRADUATED"
	StudentTransferred StudentStatus = "TRANSFERRED"
)

// IsValid reports whether s is a known student status
func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentGraduated, StudentTransferred:
		return true
	}
	return false
}

// IsValid reports whether g is a known gender
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Student is an enrolled or former pupil, identified externally by StudentID
type Student struct {
	shared.BaseEntity
	StudentID     string        `json:"studentId"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Email         *string       `json:"email"`
	Phone         string        `json:"phone"`
	DateOfBirth   *time.Time    `json:"dateOfBirth"`
	Gender        Gender        `json:"gender"`
	Address       string        `json:"address"`
	GuardianName  string        `json:"guardianName"`
	GuardianPhone string        `json:"guardianPhone"`
	GuardianEmail *string       `json:"guardianEmail"`
	Status        StudentStatus `json:"status"`
}

// StudentFields carries optional student attributes. Nil pointers are
// left untouched by Apply, which makes the same type usable for creation
// and partial updates.
type StudentFields struct {
	StudentID     *string
	FirstName     *string
	LastName      *string
	Email         *string
	Phone         *string
	DateOfBirth   *time.Time
	Gender        *Gender
	Address       *string
	GuardianName  *string
	GuardianPhone *string
	GuardianEmail *string
	Status        *StudentStatus
}

// NewStudent creates an ACTIVE student
func NewStudent(f StudentFields) (*Student, error) {
	s := &Student{
		BaseEntity: shared.NewBaseEntity(),
		Status:     StudentActive,
	}
	if f.StudentID == nil || strings.TrimSpace(*f.StudentID) == "" {
		return nil, shared.NewValidationError(shared.FieldError{Field: "studentId", Message: "Student ID is required"})
	}
	if f.FirstName == nil || f.LastName == nil {
		return nil, shared.NewValidationError(shared.FieldError{Field: "firstName", Message: "First and last name are required"})
	}
	if err := s.Apply(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply validates and copies the non-nil fields onto the student
func (s *Student) Apply(f StudentFields) error {
	var errs []shared.FieldError
	check := func(ok bool, field, msg string) {
		if !ok {
			errs = append(errs, shared.FieldError{Field: field, Message: msg})
		}
	}

	if f.StudentID != nil {
		check(strings.TrimSpace(*f.StudentID) != "", "studentId", "Student ID is required")
	}
	if f.FirstName != nil {
		check(len(strings.TrimSpace(*f.FirstName)) >= 2, "firstName", "First name must be at least 2 characters")
	}
	if f.LastName != nil {
		check(len(strings.TrimSpace(*f.LastName)) >= 2, "lastName", "Last name must be at least 2 characters")
	}
	if f.Email != nil && *f.Email != "" {
		check(ValidEmail(*f.Email), "email", "Invalid email")
	}
	if f.GuardianEmail != nil && *f.GuardianEmail != "" {
		check(ValidEmail(*f.GuardianEmail), "guardianEmail", "Invalid email")
	}
	if f.Gender != nil && *f.Gender != "" {
		check(f.Gender.IsValid(), "gender", "Gender must be MALE, FEMALE or OTHER")
	}
	if f.Status != nil {
		check(f.Status.IsValid(), "status", "Invalid student status")
	}
	if len(errs) > 0 {
		return shared.NewValidationError(errs...)
	}

	if f.StudentID != nil {
		s.StudentID = strings.TrimSpace(*f.StudentID)
	}
	if f.FirstName != nil {
		s.FirstName = strings.TrimSpace(*f.FirstName)
	}
	if f.LastName != nil {
		s.LastName = strings.TrimSpace(*f.LastName)
	}
	if f.Email != nil {
		s.Email = optionalEmail(*f.Email)
	}
	if f.Phone != nil {
		s.Phone = *f.Phone
	}
	if f.DateOfBirth != nil {
		dob := f.DateOfBirth.UTC()
		s.DateOfBirth = &dob
	}
	if f.Gender != nil {
		s.Gender = *f.Gender
	}
	if f.Address != nil {
		s.Address = *f.Address
	}
	if f.GuardianName != nil {
		s.GuardianName = *f.GuardianName
	}
	if f.GuardianPhone != nil {
		s.GuardianPhone = *f.GuardianPhone
	}
	if f.GuardianEmail != nil {
		s.GuardianEmail = optionalEmail(*f.GuardianEmail)
	}
	if f.Status != nil {
		s.Status = *f.Status
	}
	s.Touch()
	return nil
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// ValidEmail reports whether email is a bare RFC 5322 address
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// optionalEmail stores blank emails as NULL so the unique index ignores them
func optionalEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}
