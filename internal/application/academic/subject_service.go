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

// SubjectService manages subjects
type SubjectService struct {
	subjects academic.SubjectRepository
	audit    *appaudit.Recorder
	logger   *zap.Logger
}

// NewSubjectService creates a new subject service
func NewSubjectService(subjects academic.SubjectRepository, recorder *appaudit.Recorder, logger *zap.Logger) *SubjectService {
	return &SubjectService{subjects: subjects, audit: recorder, logger: logger}
}

// Create adds a subject; codes are unique
func (s *SubjectService) Create(ctx context.Context, input CreateSubjectInput) (*academic.Subject, error) {
	subject, err := academic.NewSubject(input.Name, input.Code)
	if err != nil {
		return nil, err
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntitySubject,
		EntityID: subject.ID.String(),
		Summary:  "Created subject " + subject.Name + " (" + subject.Code + ")",
	})
	return subject, nil
}

// List returns subjects matching the query
func (s *SubjectService) List(ctx context.Context, input ListSubjectsInput) (shared.Paginated[academic.Subject], error) {
	subjects, total, err := s.subjects.List(ctx, academic.SubjectFilter{
		Search: input.Search,
		Sort:   shared.ParseSort(input.Sort, academic.SubjectSortFields, academic.DefaultSubjectSort),
		Page:   input.Page,
	})
	if err != nil {
		return shared.Paginated[academic.Subject]{}, err
	}
	return shared.NewPaginated(subjects, total, input.Page), nil
}

// Get returns one subject
func (s *SubjectService) Get(ctx context.Context, id uuid.UUID) (*academic.Subject, error) {
	return s.subjects.FindByID(ctx, id)
}

// Update changes name and/or code
func (s *SubjectService) Update(ctx context.Context, id uuid.UUID, input UpdateSubjectInput) (*academic.Subject, error) {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := subject.Update(input.Name, input.Code); err != nil {
		return nil, err
	}
	if err := s.subjects.Save(ctx, subject); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntitySubject,
		EntityID: subject.ID.String(),
		Summary:  "Updated subject " + subject.Name,
	})
	return subject, nil
}

// Delete removes a subject and its class assignments and marks
func (s *SubjectService) Delete(ctx context.Context, id uuid.UUID) error {
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionDelete,
		Entity:   audit.EntitySubject,
		EntityID: id.String(),
		Summary:  "Deleted subject " + subject.Name,
	})
	return nil
}
