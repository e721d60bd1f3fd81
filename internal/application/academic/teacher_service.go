package academic

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TeacherService manages teacher records
type TeacherService struct {
	teachers academic.TeacherRepository
	audit    *appaudit.Recorder
	logger   *zap.Logger
}

// NewTeacherService creates a new teacher service
func NewTeacherService(teachers academic.TeacherRepository, recorder *appaudit.Recorder, logger *zap.Logger) *TeacherService {
	return &TeacherService{teachers: teachers, audit: recorder, logger: logger}
}

// Create adds a teacher
func (s *TeacherService) Create(ctx context.Context, input CreateTeacherInput) (*academic.Teacher, error) {
	teacher, err := academic.NewTeacher(input.EmployeeID, input.TeacherFields)
	if err != nil {
		return nil, err
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info("Teacher created", zap.String("teacher_id", teacher.ID.String()))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntityTeacher,
		EntityID: teacher.ID.String(),
		Summary:  "Created teacher " + teacher.FullName() + " (" + teacher.EmployeeID + ")",
	})
	return teacher, nil
}

// List returns teachers matching the query
func (s *TeacherService) List(ctx context.Context, input ListTeachersInput) (shared.Paginated[academic.Teacher], error) {
	filter := academic.TeacherFilter{
		Search: input.Search,
		Sort:   shared.ParseSort(input.Sort, academic.TeacherSortFields, academic.DefaultTeacherSort),
		Page:   input.Page,
	}
	if input.Status != "" {
		status := academic.TeacherStatus(input.Status)
		if !status.IsValid() {
			return shared.Paginated[academic.Teacher]{}, shared.NewValidationError(
				shared.FieldError{Field: "status", Message: "Invalid teacher status"})
		}
		filter.Status = status
	}

	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return shared.Paginated[academic.Teacher]{}, err
	}
	return shared.NewPaginated(teachers, total, input.Page), nil
}

// Get returns one teacher
func (s *TeacherService) Get(ctx context.Context, id uuid.UUID) (*academic.Teacher, error) {
	return s.teachers.FindByID(ctx, id)
}

// Update applies a partial update. The employee id is immutable.
func (s *TeacherService) Update(ctx context.Context, id uuid.UUID, fields academic.TeacherFields) (*academic.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := teacher.Apply(fields); err != nil {
		return nil, err
	}
	if err := s.teachers.Save(ctx, teacher); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityTeacher,
		EntityID: teacher.ID.String(),
		Summary:  "Updated teacher " + teacher.FullName(),
	})
	return teacher, nil
}

// Delete removes a teacher; classes they led lose their class teacher
func (s *TeacherService) Delete(ctx context.Context, id uuid.UUID) error {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.teachers.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionDelete,
		Entity:   audit.EntityTeacher,
		EntityID: id.String(),
		Summary:  "Deleted teacher " + teacher.FullName() + " (" + teacher.EmployeeID + ")",
	})
	return nil
}
