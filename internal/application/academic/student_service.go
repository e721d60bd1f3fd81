package academic

import (
	"context"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	appfinance "github.com/school/backend/internal/application/finance"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/finance"
	"github.com/school/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StudentService manages student records
type StudentService struct {
	students    academic.StudentRepository
	enrollments academic.EnrollmentRepository
	attendance  attendance.Repository
	fees        finance.FeeRepository
	audit       *appaudit.Recorder
	logger      *zap.Logger
}

// NewStudentService creates a new student service
func NewStudentService(
	students academic.StudentRepository,
	enrollments academic.EnrollmentRepository,
	attendanceRepo attendance.Repository,
	fees finance.FeeRepository,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		students:    students,
		enrollments: enrollments,
		attendance:  attendanceRepo,
		fees:        fees,
		audit:       recorder,
		logger:      logger,
	}
}

// Create adds a student. Student ids and emails must be unique.
func (s *StudentService) Create(ctx context.Context, fields academic.StudentFields) (*academic.Student, error) {
	student, err := academic.NewStudent(fields)
	if err != nil {
		return nil, err
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("Student created", zap.String("student_id", student.ID.String()))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntityStudent,
		EntityID: student.ID.String(),
		Summary:  "Created student " + student.FullName() + " (" + student.StudentID + ")",
	})
	return student, nil
}

// List returns students matching the query
func (s *StudentService) List(ctx context.Context, input ListStudentsInput) (shared.Paginated[academic.Student], error) {
	filter := academic.StudentFilter{
		Search: input.Search,
		Sort:   shared.ParseSort(input.Sort, academic.StudentSortFields, academic.DefaultStudentSort),
		Page:   input.Page,
	}
	if input.Status != "" {
		status := academic.StudentStatus(input.Status)
		if !status.IsValid() {
			return shared.Paginated[academic.Student]{}, shared.NewValidationError(
				shared.FieldError{Field: "status", Message: "Invalid student status"})
		}
		filter.Status = status
	}

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return shared.Paginated[academic.Student]{}, err
	}
	return shared.NewPaginated(students, total, input.Page), nil
}

// Get returns a student with enrollments, the last 30 attendance rows,
// fees and an attendance summary
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*StudentDetail, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollments, _, err := s.enrollments.List(ctx, academic.EnrollmentFilter{
		StudentID: &id,
		Page:      shared.Page{Page: 1, Limit: relatedLimit},
	})
	if err != nil {
		return nil, err
	}

	recent, _, err := s.attendance.List(ctx, attendance.Filter{
		StudentID: &id,
		Page:      shared.Page{Page: 1, Limit: recentAttendanceDays},
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.attendance.CountByStatus(ctx, attendance.Filter{StudentID: &id})
	if err != nil {
		return nil, err
	}

	fees, _, err := s.fees.List(ctx, finance.FeeFilter{
		StudentID: &id,
		Page:      shared.Page{Page: 1, Limit: relatedLimit},
	})
	if err != nil {
		return nil, err
	}

	return &StudentDetail{
		Student:           *student,
		Enrollments:       nonNil(enrollments),
		RecentAttendance:  nonNil(recent),
		AttendanceSummary: attendance.NewStats(counts),
		Fees:              appfinance.ToFeeDTOs(fees, time.Now()),
	}, nil
}

// Update applies a partial update
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, fields academic.StudentFields) (*academic.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := student.Apply(fields); err != nil {
		return nil, err
	}
	if err := s.students.Save(ctx, student); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityStudent,
		EntityID: student.ID.String(),
		Summary:  "Updated student " + student.FullName(),
	})
	return student, nil
}

// Delete removes a student together with their enrollments, attendance,
// fees and marks
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Student deleted", zap.String("student_id", id.String()))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionDelete,
		Entity:   audit.EntityStudent,
		EntityID: id.String(),
		Summary:  "Deleted student " + student.FullName() + " (" + student.StudentID + ")",
	})
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
