package academic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EnrollmentService places students into class sections
type EnrollmentService struct {
	enrollments academic.EnrollmentRepository
	students    academic.StudentRepository
	classes     academic.ClassRepository
	audit       *appaudit.Recorder
	logger      *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	enrollments academic.EnrollmentRepository,
	students academic.StudentRepository,
	classes academic.ClassRepository,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		classes:     classes,
		audit:       recorder,
		logger:      logger,
	}
}

// Enroll places a student in a class for an academic year. The capacity
// check and insert are atomic with respect to other enrollments.
func (s *EnrollmentService) Enroll(ctx context.Context, input EnrollInput) (*academic.EnrollmentDetail, error) {
	student, err := s.students.FindByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	class, err := s.classes.FindByID(ctx, input.ClassSectionID)
	if err != nil {
		return nil, err
	}

	// a class section belongs to exactly one academic year
	year := strings.TrimSpace(input.AcademicYear)
	if year == "" {
		year = class.AcademicYear
	}
	if year != class.AcademicYear {
		return nil, shared.NewValidationError(shared.FieldError{
			Field:   "academicYear",
			Message: fmt.Sprintf("Academic year must match the class (%s)", class.AcademicYear),
		})
	}
	enrollment, err := academic.NewEnrollment(student.ID, class.ID, year)
	if err != nil {
		return nil, err
	}

	if err := s.enrollments.CreateWithinCapacity(ctx, enrollment); err != nil {
		if shared.IsDuplicate(err) {
			return nil, shared.ErrDuplicate.WithMessage("Student is already enrolled in this class for the academic year")
		}
		return nil, err
	}

	s.logger.Info("Student enrolled",
		zap.String("student_id", student.ID.String()),
		zap.String("class_id", class.ID.String()),
		zap.String("academic_year", year))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntityEnrollment,
		EntityID: enrollment.ID.String(),
		Summary:  fmt.Sprintf("Enrolled %s in %s (%s)", student.FullName(), class.DisplayName(), year),
	})

	return &academic.EnrollmentDetail{
		Enrollment: *enrollment,
		Student: academic.StudentRef{
			ID:        student.ID,
			StudentID: student.StudentID,
			FirstName: student.FirstName,
			LastName:  student.LastName,
		},
		Class: academic.ClassRef{
			ID:           class.ID,
			Name:         class.Name,
			Section:      class.Section,
			AcademicYear: class.AcademicYear,
		},
	}, nil
}

// List returns enrollments matching the query, newest first
func (s *EnrollmentService) List(ctx context.Context, input ListEnrollmentsInput) (shared.Paginated[academic.EnrollmentDetail], error) {
	items, total, err := s.enrollments.List(ctx, academic.EnrollmentFilter{
		StudentID:      input.StudentID,
		ClassSectionID: input.ClassSectionID,
		AcademicYear:   input.AcademicYear,
		Page:           input.Page,
	})
	if err != nil {
		return shared.Paginated[academic.EnrollmentDetail]{}, err
	}
	return shared.NewPaginated(items, total, input.Page), nil
}

// Delete removes an enrollment
func (s *EnrollmentService) Delete(ctx context.Context, id uuid.UUID) error {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.enrollments.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionDelete,
		Entity:   audit.EntityEnrollment,
		EntityID: id.String(),
		Summary:  "Removed enrollment",
		Metadata: map[string]any{
			"studentId":      enrollment.StudentID.String(),
			"classSectionId": enrollment.ClassSectionID.String(),
			"academicYear":   enrollment.AcademicYear,
		},
	})
	return nil
}
