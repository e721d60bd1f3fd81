package academic

import (
	"strings"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

// Enrollment places a student in a class section for an academic year
type Enrollment struct {
	shared.BaseEntity
	StudentID      uuid.UUID `json:"studentId"`
	ClassSectionID uuid.UUID `json:"classSectionId"`
	AcademicYear   string    `json:"academicYear"`
}

// NewEnrollment creates an enrollment
func NewEnrollment(studentID, classSectionID uuid.UUID, academicYear string) (*Enrollment, error) {
	academicYear = strings.TrimSpace(academicYear)
	if academicYear == "" {
		return nil, shared.NewValidationError(shared.FieldError{Field: "academicYear", Message: "Academic year is required"})
	}
	return &Enrollment{
		BaseEntity:     shared.NewBaseEntity(),
		StudentID:      studentID,
		ClassSectionID: classSectionID,
		AcademicYear:   academicYear,
	}, nil
}
