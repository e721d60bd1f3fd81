package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency bounds the bulk marking fan-out when unset
const DefaultMaxConcurrency = 8

// Metrics receives bulk marking outcomes
type Metrics interface {
	RecordAttendanceMarked(ctx context.Context, saved, failed int)
}

// Service marks and reports attendance
type Service struct {
	records        attendance.Repository
	classes        academic.ClassRepository
	students       academic.StudentRepository
	audit          *appaudit.Recorder
	logger         *zap.Logger
	metrics        Metrics
	maxConcurrency int
}

// Option configures the attendance service
type Option func(*Service)

// WithMaxConcurrency sets how many upserts run at once during bulk marking
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithMetrics reports bulk marking outcomes to m
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new attendance service
func NewService(
	records attendance.Repository,
	classes academic.ClassRepository,
	students academic.StudentRepository,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		records:        records,
		classes:        classes,
		students:       students,
		audit:          recorder,
		logger:         logger,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkBulk upserts one record per student for the class and day. Repeated
// students keep their last entry. Each record is saved on its own, so a
// failing record does not roll back the others; failures are reported in
// the result.
func (s *Service) MarkBulk(ctx context.Context, input MarkBulkInput) (*BulkResult, error) {
	date, err := attendance.ParseDate(input.Date)
	if err != nil {
		return nil, shared.NewValidationError(shared.FieldError{Field: "date", Message: err.Error()})
	}
	entries, err := parseEntries(input.Records)
	if err != nil {
		return nil, err
	}

	class, err := s.classes.FindByID(ctx, input.ClassSectionID)
	if err != nil {
		return nil, err
	}

	entries = attendance.Dedupe(entries)
	saved := make([]*attendance.RecordDetail, len(entries))
	errs := make([]error, len(entries))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			rec := attendance.NewRecord(e.StudentID, class.ID, date, e.Status, e.Remarks)
			saved[i], errs[i] = s.records.Upsert(ctx, rec)
			return nil
		})
	}
	_ = g.Wait()

	result := &BulkResult{
		Date:           date.Format(attendance.DateLayout),
		ClassSectionID: class.ID,
		ClassName:      class.DisplayName(),
		Records:        make([]attendance.RecordDetail, 0, len(entries)),
		Failures:       []Failure{},
	}
	for i, e := range entries {
		if errs[i] != nil {
			result.Failures = append(result.Failures, s.failure(ctx, e.StudentID, errs[i]))
			continue
		}
		result.Records = append(result.Records, *saved[i])
	}
	result.RecordCount = len(result.Records)
	result.FailedCount = len(result.Failures)

	if s.metrics != nil {
		s.metrics.RecordAttendanceMarked(ctx, result.RecordCount, result.FailedCount)
	}
	s.logger.Info("Attendance marked",
		zap.String("class_id", class.ID.String()),
		zap.String("date", result.Date),
		zap.Int("saved", result.RecordCount),
		zap.Int("failed", result.FailedCount))

	if result.RecordCount > 0 {
		s.audit.RecordBestEffort(ctx, audit.Entry{
			Action:   audit.ActionCreate,
			Entity:   audit.EntityAttendance,
			EntityID: class.ID.String(),
			Summary: fmt.Sprintf("Marked attendance for %s on %s (%d records)",
				class.DisplayName(), result.Date, result.RecordCount),
			Metadata: map[string]any{"failed": result.FailedCount},
		})
	}
	return result, nil
}

func parseEntries(inputs []MarkEntryInput) ([]attendance.Entry, error) {
	if len(inputs) == 0 {
		return nil, shared.NewValidationError(shared.FieldError{Field: "records", Message: "At least one attendance record is required"})
	}
	entries := make([]attendance.Entry, len(inputs))
	var fields []shared.FieldError
	for i, in := range inputs {
		status, err := attendance.ParseStatus(in.Status)
		if err != nil {
			fields = append(fields, shared.FieldError{Field: fmt.Sprintf("records[%d].status", i), Message: err.Error()})
		}
		if in.StudentID == uuid.Nil {
			fields = append(fields, shared.FieldError{Field: fmt.Sprintf("records[%d].studentId", i), Message: "Student ID is required"})
		}
		entries[i] = attendance.Entry{StudentID: in.StudentID, Status: status, Remarks: in.Remarks}
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError(fields...)
	}
	return entries, nil
}

func (s *Service) failure(ctx context.Context, studentID uuid.UUID, err error) Failure {
	if errors.Is(err, shared.ErrForeignKey) {
		return Failure{StudentID: studentID, Code: academic.ErrStudentNotFound.Code, Message: academic.ErrStudentNotFound.Message}
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return Failure{StudentID: studentID, Code: de.Code, Message: de.Message}
	}
	s.logger.Error("Attendance upsert failed", zap.String("student_id", studentID.String()), zap.Error(err))
	return Failure{StudentID: studentID, Code: shared.ErrInternal.Code, Message: "Failed to save attendance record"}
}

// Update changes status and remarks of one record
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*attendance.Record, error) {
	status, err := attendance.ParseStatus(input.Status)
	if err != nil {
		return nil, shared.NewValidationError(shared.FieldError{Field: "status", Message: err.Error()})
	}
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Update(status, input.Remarks)
	if err := s.records.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityAttendance,
		EntityID: rec.ID.String(),
		Summary:  fmt.Sprintf("Changed attendance on %s to %s", rec.Date.Format(attendance.DateLayout), rec.Status),
	})
	return rec, nil
}

// List returns attendance rows, most recent day first
func (s *Service) List(ctx context.Context, input ListInput) (shared.Paginated[attendance.RecordDetail], error) {
	filter := attendance.Filter{
		ClassSectionID: input.ClassSectionID,
		StudentID:      input.StudentID,
		Page:           input.Page,
	}
	var err error
	if filter.Date, err = optionalDate("date", input.Date); err != nil {
		return shared.Paginated[attendance.RecordDetail]{}, err
	}
	if filter.From, err = optionalDate("startDate", input.StartDate); err != nil {
		return shared.Paginated[attendance.RecordDetail]{}, err
	}
	if filter.To, err = optionalDate("endDate", input.EndDate); err != nil {
		return shared.Paginated[attendance.RecordDetail]{}, err
	}

	items, total, err := s.records.List(ctx, filter)
	if err != nil {
		return shared.Paginated[attendance.RecordDetail]{}, err
	}
	return shared.NewPaginated(items, total, input.Page), nil
}

// ClassRoster returns every enrolled student of a class with their mark for
// the day. An empty date means today (UTC).
func (s *Service) ClassRoster(ctx context.Context, classID uuid.UUID, date string) (*ClassRoster, error) {
	day := attendance.Day(time.Now())
	if date != "" {
		d, err := attendance.ParseDate(date)
		if err != nil {
			return nil, shared.NewValidationError(shared.FieldError{Field: "date", Message: err.Error()})
		}
		day = d
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	students, err := shared.CollectAll(func(p shared.Page) ([]academic.Student, int64, error) {
		return s.students.List(ctx, academic.StudentFilter{
			ClassSectionID: &classID,
			Sort:           shared.Sort{Field: "lastName"},
			Page:           p,
		})
	})
	if err != nil {
		return nil, err
	}
	records, err := shared.CollectAll(func(p shared.Page) ([]attendance.RecordDetail, int64, error) {
		return s.records.List(ctx, attendance.Filter{
			ClassSectionID: &classID,
			Date:           &day,
			Page:           p,
		})
	})
	if err != nil {
		return nil, err
	}

	byStudent := make(map[uuid.UUID]attendance.RecordDetail, len(records))
	counts := make(map[attendance.Status]int64, 3)
	for _, r := range records {
		byStudent[r.StudentID] = r
		counts[r.Status]++
	}

	roster := &ClassRoster{
		Date: day.Format(attendance.DateLayout),
		ClassSection: academic.ClassRef{
			ID:           class.ID,
			Name:         class.Name,
			Section:      class.Section,
			AcademicYear: class.AcademicYear,
		},
		Marked:   len(records),
		Summary:  attendance.NewStats(counts),
		Students: make([]RosterEntry, len(students)),
	}
	for i, st := range students {
		entry := RosterEntry{Student: academic.StudentRef{
			ID:        st.ID,
			StudentID: st.StudentID,
			FirstName: st.FirstName,
			LastName:  st.LastName,
		}}
		if r, ok := byStudent[st.ID]; ok {
			id, status := r.ID, r.Status
			entry.RecordID = &id
			entry.Status = &status
			entry.Remarks = r.Remarks
		}
		roster.Students[i] = entry
	}
	return roster, nil
}

// History returns a student's attendance with overall stats
func (s *Service) History(ctx context.Context, studentID uuid.UUID, page shared.Page) (*History, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	items, total, err := s.records.List(ctx, attendance.Filter{StudentID: &studentID, Page: page})
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &History{Paginated: shared.NewPaginated(items, total, page), Summary: stats}, nil
}

// Stats returns attendance totals and rate for a student. Late counts as
// attended; a student without records has a rate of 0.
func (s *Service) Stats(ctx context.Context, studentID uuid.UUID) (*attendance.Stats, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Service) stats(ctx context.Context, studentID uuid.UUID) (attendance.Stats, error) {
	counts, err := s.records.CountByStatus(ctx, attendance.Filter{StudentID: &studentID})
	if err != nil {
		return attendance.Stats{}, err
	}
	return attendance.NewStats(counts), nil
}

func optionalDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := attendance.ParseDate(raw)
	if err != nil {
		return nil, shared.NewValidationError(shared.FieldError{Field: field, Message: err.Error()})
	}
	return &d, nil
}
