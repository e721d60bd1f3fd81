package assessment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/assessment"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MarkInput is one mark submission
type MarkInput struct {
	StudentID uuid.UUID
	SubjectID uuid.UUID
	ExamName  string
	Marks     float64
	Remarks   string
}

// Service records and reports exam marks
type Service struct {
	marks    assessment.Repository
	students academic.StudentRepository
	subjects academic.SubjectRepository
	classes  academic.ClassRepository
	audit    *appaudit.Recorder
	logger   *zap.Logger
}

// NewService creates a new mark service
func NewService(
	marks assessment.Repository,
	students academic.StudentRepository,
	subjects academic.SubjectRepository,
	classes academic.ClassRepository,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		marks:    marks,
		students: students,
		subjects: subjects,
		classes:  classes,
		audit:    recorder,
		logger:   logger,
	}
}

// Upsert records a single mark, overwriting an earlier one for the same
// student, subject and exam.
func (s *Service) Upsert(ctx context.Context, input MarkInput) (*assessment.MarkDetail, error) {
	stored, err := s.UpsertBulk(ctx, []MarkInput{input})
	if err != nil {
		return nil, err
	}
	return &stored[0], nil
}

// UpsertBulk records many marks in one transaction. Any invalid entry
// rejects the whole batch.
func (s *Service) UpsertBulk(ctx context.Context, inputs []MarkInput) ([]assessment.MarkDetail, error) {
	if len(inputs) == 0 {
		return nil, shared.NewValidationError(shared.FieldError{Field: "marks", Message: "At least one mark is required"})
	}

	marks := make([]*assessment.Mark, 0, len(inputs))
	var fields []shared.FieldError
	for i, in := range inputs {
		m, err := assessment.NewMark(in.StudentID, in.SubjectID, in.ExamName, in.Marks, in.Remarks)
		if err != nil {
			fields = append(fields, indexed(i, err)...)
			continue
		}
		marks = append(marks, m)
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError(fields...)
	}

	if err := s.checkReferences(ctx, marks); err != nil {
		return nil, err
	}

	stored, err := s.marks.Upsert(ctx, marks)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Marks recorded", zap.Int("count", len(stored)))
	summary, entityID := fmt.Sprintf("Recorded %d marks", len(stored)), ""
	if len(stored) == 1 {
		m := stored[0]
		summary = fmt.Sprintf("Recorded %s marks for %s %s in %s",
			m.ExamName, m.Student.FirstName, m.Student.LastName, m.Subject.Name)
		entityID = m.ID.String()
	}
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntityMark,
		EntityID: entityID,
		Summary:  summary,
	})
	return stored, nil
}

// checkReferences resolves every distinct student and subject once
func (s *Service) checkReferences(ctx context.Context, marks []*assessment.Mark) error {
	students := make(map[uuid.UUID]bool)
	subjects := make(map[uuid.UUID]bool)
	for _, m := range marks {
		if !students[m.StudentID] {
			if _, err := s.students.FindByID(ctx, m.StudentID); err != nil {
				return err
			}
			students[m.StudentID] = true
		}
		if !subjects[m.SubjectID] {
			if _, err := s.subjects.FindByID(ctx, m.SubjectID); err != nil {
				return err
			}
			subjects[m.SubjectID] = true
		}
	}
	return nil
}

func indexed(i int, err error) []shared.FieldError {
	fields, ok := shared.FieldErrors(err)
	if !ok {
		return []shared.FieldError{{Field: fmt.Sprintf("marks[%d]", i), Message: err.Error()}}
	}
	for j := range fields {
		fields[j].Field = fmt.Sprintf("marks[%d].%s", i, fields[j].Field)
	}
	return fields
}

// ByStudent lists a student's marks ordered by subject then exam
func (s *Service) ByStudent(ctx context.Context, studentID uuid.UUID) ([]assessment.MarkDetail, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.marks.List(ctx, assessment.Filter{StudentID: &studentID})
}

// BySubject lists every mark in a subject
func (s *Service) BySubject(ctx context.Context, subjectID uuid.UUID) ([]assessment.MarkDetail, error) {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.marks.List(ctx, assessment.Filter{SubjectID: &subjectID})
}

// ByClass lists the marks of students enrolled in a class, optionally for
// one exam
func (s *Service) ByClass(ctx context.Context, classID uuid.UUID, examName string) ([]assessment.MarkDetail, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.marks.List(ctx, assessment.Filter{ClassSectionID: &classID, ExamName: examName})
}

// Stats summarizes a student's marks
func (s *Service) Stats(ctx context.Context, studentID uuid.UUID) (*assessment.Stats, error) {
	details, err := s.ByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	marks := make([]assessment.Mark, len(details))
	for i, d := range details {
		marks[i] = d.Mark
	}
	stats := assessment.NewStats(marks)
	return &stats, nil
}

// Delete removes a mark
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.marks.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionDelete,
		Entity:   audit.EntityMark,
		EntityID: id.String(),
		Summary:  "Deleted mark",
	})
	return nil
}
