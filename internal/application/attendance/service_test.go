package attendance

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/persistence"
	"github.com/school/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db        *gorm.DB
	svc       *Service
	class     *academic.ClassSection
	students  []*academic.Student
	auditRepo *persistence.GormAuditRepository
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	classRepo := persistence.NewGormClassRepository(db)
	studentRepo := persistence.NewGormStudentRepository(db)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db)
	auditRepo := persistence.NewGormAuditRepository(db)

	class, err := academic.NewClassSection(academic.ClassFields{
		Name:         ptr("Grade 5"),
		Section:      ptr("A"),
		Grade:        ptr("5"),
		AcademicYear: ptr("2024-2025"),
		Capacity:     ptr(30),
	})
	require.NoError(t, err)
	require.NoError(t, classRepo.Create(ctx, class))

	f := &fixture{db: db, class: class, auditRepo: auditRepo}
	for _, name := range [][3]string{{"STU-001", "Amina", "Otieno"}, {"STU-002", "Brian", "Kamau"}, {"STU-003", "Chao", "Wanjiru"}} {
		st, err := academic.NewStudent(academic.StudentFields{StudentID: ptr(name[0]), FirstName: ptr(name[1]), LastName: ptr(name[2])})
		require.NoError(t, err)
		require.NoError(t, studentRepo.Create(ctx, st))
		e, err := academic.NewEnrollment(st.ID, class.ID, class.AcademicYear)
		require.NoError(t, err)
		require.NoError(t, enrollmentRepo.CreateWithinCapacity(ctx, e))
		f.students = append(f.students, st)
	}

	f.svc = NewService(persistence.NewGormAttendanceRepository(db), classRepo, studentRepo,
		appaudit.NewRecorder(auditRepo, zap.NewNop()), zap.NewNop(), opts...)
	return f
}

func (f *fixture) mark(t *testing.T, date string, statuses ...string) *BulkResult {
	t.Helper()
	input := MarkBulkInput{ClassSectionID: f.class.ID, Date: date}
	for i, s := range statuses {
		input.Records = append(input.Records, MarkEntryInput{StudentID: f.students[i].ID, Status: s})
	}
	res, err := f.svc.MarkBulk(context.Background(), input)
	require.NoError(t, err)
	return res
}

type countingMetrics struct {
	saved, failed atomic.Int64
}

func (m *countingMetrics) RecordAttendanceMarked(_ context.Context, saved, failed int) {
	m.saved.Add(int64(saved))
	m.failed.Add(int64(failed))
}

func TestMarkBulk_RemarkingOverwrites(t *testing.T) {
	metrics := &countingMetrics{}
	f := newFixture(t, WithMetrics(metrics))
	ctx := context.Background()

	first := f.mark(t, "2024-03-01", "P", "A", "L")
	assert.Equal(t, 3, first.RecordCount)
	assert.Equal(t, 0, first.FailedCount)
	assert.Equal(t, "Grade 5 - A", first.ClassName)

	second := f.mark(t, "2024-03-01", "absent", "present", "LATE")
	assert.Equal(t, 3, second.RecordCount)

	page, err := f.svc.List(ctx, ListInput{ClassSectionID: &f.class.ID, Date: "2024-03-01", Page: shared.DefaultPageRequest()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	byStudent := map[uuid.UUID]attendance.Status{}
	for _, r := range page.Items {
		byStudent[r.StudentID] = r.Status
	}
	assert.Equal(t, attendance.StatusAbsent, byStudent[f.students[0].ID])
	assert.Equal(t, attendance.StatusPresent, byStudent[f.students[1].ID])
	assert.Equal(t, attendance.StatusLate, byStudent[f.students[2].ID])

	assert.Equal(t, int64(6), metrics.saved.Load())
	assert.Equal(t, int64(0), metrics.failed.Load())

	_, total, err := f.auditRepo.List(ctx, audit.Filter{Entity: audit.EntityAttendance, Page: shared.DefaultPageRequest()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestMarkBulk_DuplicateStudentLastEntryWins(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.MarkBulk(context.Background(), MarkBulkInput{
		ClassSectionID: f.class.ID,
		Date:           "2024-03-04",
		Records: []MarkEntryInput{
			{StudentID: f.students[0].ID, Status: "P"},
			{StudentID: f.students[0].ID, Status: "L", Remarks: "bus"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.RecordCount)
	assert.Equal(t, attendance.StatusLate, res.Records[0].Status)
	assert.Equal(t, "bus", res.Records[0].Remarks)
}

func TestMarkBulk_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.MarkBulk(ctx, MarkBulkInput{ClassSectionID: f.class.ID, Date: "2024-03-01"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.svc.MarkBulk(ctx, MarkBulkInput{ClassSectionID: f.class.ID, Date: "03/01/2024",
		Records: []MarkEntryInput{{StudentID: f.students[0].ID, Status: "P"}}})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.svc.MarkBulk(ctx, MarkBulkInput{ClassSectionID: f.class.ID, Date: "2024-03-01",
		Records: []MarkEntryInput{{StudentID: f.students[0].ID, Status: "P"}, {StudentID: f.students[1].ID, Status: "EXCUSED"}}})
	require.ErrorIs(t, err, shared.ErrValidation)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	fields, ok := de.Details.([]shared.FieldError)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "records[1].status", fields[0].Field)

	_, err = f.svc.MarkBulk(ctx, MarkBulkInput{ClassSectionID: uuid.New(), Date: "2024-03-01",
		Records: []MarkEntryInput{{StudentID: f.students[0].ID, Status: "P"}}})
	assert.ErrorIs(t, err, academic.ErrClassNotFound)

	// nothing was written by rejected requests
	page, err := f.svc.List(ctx, ListInput{Page: shared.DefaultPageRequest()})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

// failingRepository rejects upserts for one student and delegates the rest
type failingRepository struct {
	attendance.Repository
	student uuid.UUID
	calls   atomic.Int64
}

func (r *failingRepository) Upsert(ctx context.Context, rec *attendance.Record) (*attendance.RecordDetail, error) {
	r.calls.Add(1)
	if rec.StudentID == r.student {
		return nil, shared.ErrForeignKey
	}
	return r.Repository.Upsert(ctx, rec)
}

func TestMarkBulk_PartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ghost := uuid.New()

	repo := &failingRepository{Repository: persistence.NewGormAttendanceRepository(f.db), student: ghost}

	metrics := &countingMetrics{}
	svc := NewService(repo, persistence.NewGormClassRepository(f.db), persistence.NewGormStudentRepository(f.db),
		appaudit.NewRecorder(f.auditRepo, zap.NewNop()), zap.NewNop(), WithMaxConcurrency(2), WithMetrics(metrics))

	res, err := svc.MarkBulk(ctx, MarkBulkInput{
		ClassSectionID: f.class.ID,
		Date:           "2024-03-05",
		Records: []MarkEntryInput{
			{StudentID: f.students[0].ID, Status: "P"},
			{StudentID: ghost, Status: "P"},
			{StudentID: f.students[1].ID, Status: "A"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RecordCount)
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, ghost, res.Failures[0].StudentID)
	assert.Equal(t, "STUDENT_NOT_FOUND", res.Failures[0].Code)
	assert.Equal(t, int64(1), metrics.failed.Load())
	assert.Equal(t, int64(3), repo.calls.Load())
}

func TestService_UpdateAndRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.mark(t, "2024-03-01", "P", "A")
	var absentID uuid.UUID
	for _, r := range res.Records {
		if r.StudentID == f.students[1].ID {
			absentID = r.ID
		}
	}

	updated, err := f.svc.Update(ctx, absentID, UpdateInput{Status: "L", Remarks: ptr("doctor")})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, updated.Status)
	assert.Equal(t, "doctor", updated.Remarks)

	_, err = f.svc.Update(ctx, absentID, UpdateInput{Status: "X"})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = f.svc.Update(ctx, uuid.New(), UpdateInput{Status: "P"})
	assert.ErrorIs(t, err, attendance.ErrNotFound)

	roster, err := f.svc.ClassRoster(ctx, f.class.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, roster.Marked)
	require.Len(t, roster.Students, 3)
	assert.Equal(t, int64(2), roster.Summary.Total)
	assert.Equal(t, 100.0, roster.Summary.AttendanceRate)

	unmarked := 0
	for _, e := range roster.Students {
		if e.Status == nil {
			unmarked++
			assert.Equal(t, f.students[2].ID, e.Student.ID)
		}
	}
	assert.Equal(t, 1, unmarked)
}

func TestService_HistoryAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mark(t, "2024-03-01", "P")
	f.mark(t, "2024-03-02", "A")
	f.mark(t, "2024-03-03", "L")

	amina := f.students[0].ID
	history, err := f.svc.History(ctx, amina, shared.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), history.Total)
	require.Len(t, history.Items, 2)
	assert.Equal(t, "2024-03-03", history.Items[0].Date.Format(attendance.DateLayout))
	assert.Equal(t, 66.67, history.Summary.AttendanceRate)

	stats, err := f.svc.Stats(ctx, f.students[2].ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.Stats{}, *stats)

	ranged, err := f.svc.List(ctx, ListInput{StudentID: &amina, StartDate: "2024-03-02", EndDate: "2024-03-03", Page: shared.DefaultPageRequest()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ranged.Total)

	_, err = f.svc.Stats(ctx, uuid.New())
	assert.ErrorIs(t, err, academic.ErrStudentNotFound)
}

func TestService_RosterCoversClassesLargerThanOnePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	classRepo := persistence.NewGormClassRepository(f.db)
	studentRepo := persistence.NewGormStudentRepository(f.db)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(f.db)

	hall, err := academic.NewClassSection(academic.ClassFields{
		Name:         ptr("Assembly"),
		Grade:        ptr("All"),
		AcademicYear: ptr("2024-2025"),
		Capacity:     ptr(200),
	})
	require.NoError(t, err)
	require.NoError(t, classRepo.Create(ctx, hall))

	const size = shared.MaxLimit + 5
	input := MarkBulkInput{ClassSectionID: hall.ID, Date: "2024-03-01"}
	for i := range size {
		st, err := academic.NewStudent(academic.StudentFields{
			StudentID: ptr(fmt.Sprintf("HALL-%03d", i)),
			FirstName: ptr("Pupil"),
			LastName:  ptr(fmt.Sprintf("N%03d", i)),
		})
		require.NoError(t, err)
		require.NoError(t, studentRepo.Create(ctx, st))
		e, err := academic.NewEnrollment(st.ID, hall.ID, hall.AcademicYear)
		require.NoError(t, err)
		require.NoError(t, enrollmentRepo.CreateWithinCapacity(ctx, e))
		input.Records = append(input.Records, MarkEntryInput{StudentID: st.ID, Status: "P"})
	}
	_, err = f.svc.MarkBulk(ctx, input)
	require.NoError(t, err)

	roster, err := f.svc.ClassRoster(ctx, hall.ID, "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, roster.Students, size)
	assert.Equal(t, size, roster.Marked)
	for _, e := range roster.Students {
		assert.NotNil(t, e.Status, "student %s has no mark", e.Student.StudentID)
	}
}
