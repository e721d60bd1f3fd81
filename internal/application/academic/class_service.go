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

// ClassService manages class sections and their subject assignments
type ClassService struct {
	classes  academic.ClassRepository
	teachers academic.TeacherRepository
	subjects academic.SubjectRepository
	students academic.StudentRepository
	audit    *appaudit.Recorder
	logger   *zap.Logger
}

// NewClassService creates a new class service
func NewClassService(
	classes academic.ClassRepository,
	teachers academic.TeacherRepository,
	subjects academic.SubjectRepository,
	students academic.StudentRepository,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *ClassService {
	return &ClassService{
		classes:  classes,
		teachers: teachers,
		subjects: subjects,
		students: students,
		audit:    recorder,
		logger:   logger,
	}
}

// Create adds a class section. A class teacher, when given, must exist.
func (s *ClassService) Create(ctx context.Context, fields academic.ClassFields) (*ClassDTO, error) {
	if err := s.checkTeacher(ctx, fields); err != nil {
		return nil, err
	}
	class, err := academic.NewClassSection(fields)
	if err != nil {
		return nil, err
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info("Class created", zap.String("class_id", class.ID.String()))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntityClass,
		EntityID: class.ID.String(),
		Summary:  "Created class " + class.DisplayName() + " (" + class.AcademicYear + ")",
	})
	return &ClassDTO{ClassSection: *class}, nil
}

// List returns classes with their enrolled counts
func (s *ClassService) List(ctx context.Context, input ListClassesInput) (shared.Paginated[ClassDTO], error) {
	filter := academic.ClassFilter{
		Search:       input.Search,
		AcademicYear: input.AcademicYear,
		Sort:         shared.ParseSort(input.Sort, academic.ClassSortFields, academic.DefaultClassSort),
		Page:         input.Page,
	}
	if input.Status != "" {
		status := academic.ClassStatus(input.Status)
		if !status.IsValid() {
			return shared.Paginated[ClassDTO]{}, shared.NewValidationError(
				shared.FieldError{Field: "status", Message: "Status must be ACTIVE or INACTIVE"})
		}
		filter.Status = status
	}

	classes, total, err := s.classes.List(ctx, filter)
	if err != nil {
		return shared.Paginated[ClassDTO]{}, err
	}

	ids := make([]uuid.UUID, len(classes))
	for i := range classes {
		ids[i] = classes[i].ID
	}
	counts, err := s.classes.EnrolledCounts(ctx, ids)
	if err != nil {
		return shared.Paginated[ClassDTO]{}, err
	}

	items := make([]ClassDTO, len(classes))
	for i := range classes {
		items[i] = ClassDTO{ClassSection: classes[i], EnrolledCount: counts[classes[i].ID]}
	}
	return shared.NewPaginated(items, total, input.Page), nil
}

// Get returns a class with its teacher, subjects and enrolled count
func (s *ClassService) Get(ctx context.Context, id uuid.UUID) (*ClassDetail, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ClassDetail{ClassDTO: ClassDTO{ClassSection: *class}}
	if class.ClassTeacherID != nil {
		teacher, err := s.teachers.FindByID(ctx, *class.ClassTeacherID)
		if err != nil && !shared.IsNotFound(err) {
			return nil, err
		}
		detail.ClassTeacher = teacher
	}

	subjects, err := s.classes.Subjects(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Subjects = nonNil(subjects)

	counts, err := s.classes.EnrolledCounts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	detail.EnrolledCount = counts[id]
	return detail, nil
}

// Students lists the students enrolled in a class
func (s *ClassService) Students(ctx context.Context, id uuid.UUID, page shared.Page) (shared.Paginated[academic.Student], error) {
	if _, err := s.classes.FindByID(ctx, id); err != nil {
		return shared.Paginated[academic.Student]{}, err
	}
	students, total, err := s.students.List(ctx, academic.StudentFilter{
		ClassSectionID: &id,
		Sort:           shared.Sort{Field: "lastName"},
		Page:           page,
	})
	if err != nil {
		return shared.Paginated[academic.Student]{}, err
	}
	return shared.NewPaginated(students, total, page), nil
}

// Update applies a partial update
func (s *ClassService) Update(ctx context.Context, id uuid.UUID, fields academic.ClassFields) (*ClassDTO, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeacher(ctx, fields); err != nil {
		return nil, err
	}
	if err := class.Apply(fields); err != nil {
		return nil, err
	}
	if err := s.classes.Save(ctx, class); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityClass,
		EntityID: class.ID.String(),
		Summary:  "Updated class " + class.DisplayName(),
	})

	counts, err := s.classes.EnrolledCounts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return &ClassDTO{ClassSection: *class, EnrolledCount: counts[id]}, nil
}

// AssignSubjects replaces the subject set of a class
func (s *ClassService) AssignSubjects(ctx context.Context, id uuid.UUID, subjectIDs []uuid.UUID) ([]academic.Subject, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unique := dedupeIDs(subjectIDs)
	if len(unique) > 0 {
		found, err := s.subjects.CountByIDs(ctx, unique)
		if err != nil {
			return nil, err
		}
		if found != int64(len(unique)) {
			return nil, academic.ErrSubjectNotFound
		}
	}

	if err := s.classes.ReplaceSubjects(ctx, id, unique); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityClass,
		EntityID: id.String(),
		Summary:  "Assigned subjects to " + class.DisplayName(),
		Metadata: map[string]any{"subjectCount": len(unique)},
	})

	subjects, err := s.classes.Subjects(ctx, id)
	if err != nil {
		return nil, err
	}
	return nonNil(subjects), nil
}

// Delete removes a class with its enrollments and attendance
func (s *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionDelete,
		Entity:   audit.EntityClass,
		EntityID: id.String(),
		Summary:  "Deleted class " + class.DisplayName(),
	})
	return nil
}

func (s *ClassService) checkTeacher(ctx context.Context, fields academic.ClassFields) error {
	if fields.ClassTeacherID == nil || fields.ClearTeacher {
		return nil
	}
	_, err := s.teachers.FindByID(ctx, *fields.ClassTeacherID)
	return err
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
