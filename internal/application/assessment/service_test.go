package assessment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/assessment"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/persistence"
	"github.com/school/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	svc      *Service
	class    *academic.ClassSection
	students []*academic.Student
	math     *academic.Subject
	science  *academic.Subject
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	studentRepo := persistence.NewGormStudentRepository(db)
	subjectRepo := persistence.NewGormSubjectRepository(db)
	classRepo := persistence.NewGormClassRepository(db)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db)

	f := &fixture{}
	var err error
	f.class, err = academic.NewClassSection(academic.ClassFields{
		Name: ptr("Grade 6"), Section: ptr("B"), Grade: ptr("6"), AcademicYear: ptr("2024-2025"),
	})
	require.NoError(t, err)
	require.NoError(t, classRepo.Create(ctx, f.class))

	for i, id := range []string{"STU-010", "STU-011"} {
		st, err := academic.NewStudent(academic.StudentFields{StudentID: ptr(id), FirstName: ptr("Student"), LastName: ptr(id)})
		require.NoError(t, err)
		require.NoError(t, studentRepo.Create(ctx, st))
		if i == 0 {
			e, err := academic.NewEnrollment(st.ID, f.class.ID, f.class.AcademicYear)
			require.NoError(t, err)
			require.NoError(t, enrollmentRepo.CreateWithinCapacity(ctx, e))
		}
		f.students = append(f.students, st)
	}

	f.math, err = academic.NewSubject("Mathematics", "MATH")
	require.NoError(t, err)
	require.NoError(t, subjectRepo.Create(ctx, f.math))
	f.science, err = academic.NewSubject("Science", "SCI")
	require.NoError(t, err)
	require.NoError(t, subjectRepo.Create(ctx, f.science))

	log := zap.NewNop()
	f.svc = NewService(persistence.NewGormMarkRepository(db), studentRepo, subjectRepo, classRepo,
		appaudit.NewRecorder(persistence.NewGormAuditRepository(db), log), log)
	return f
}

func TestService_UpsertOverwritesSameExam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.students[0].ID

	first, err := f.svc.Upsert(ctx, MarkInput{StudentID: student, SubjectID: f.math.ID, ExamName: "Midterm", Marks: 60})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", first.Subject.Name)

	second, err := f.svc.Upsert(ctx, MarkInput{StudentID: student, SubjectID: f.math.ID, ExamName: "Midterm", Marks: 72.5, Remarks: "regraded"})
	require.NoError(t, err)
	assert.Equal(t, 72.5, second.Marks)
	assert.Equal(t, "regraded", second.Remarks)

	marks, err := f.svc.ByStudent(ctx, student)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, first.ID, marks[0].ID)
}

func TestService_UpsertBulkAndQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	enrolled, other := f.students[0].ID, f.students[1].ID

	stored, err := f.svc.UpsertBulk(ctx, []MarkInput{
		{StudentID: enrolled, SubjectID: f.science.ID, ExamName: "Final", Marks: 91},
		{StudentID: enrolled, SubjectID: f.math.ID, ExamName: "Midterm", Marks: 70},
		{StudentID: enrolled, SubjectID: f.math.ID, ExamName: "Final", Marks: 80},
		{StudentID: other, SubjectID: f.math.ID, ExamName: "Final", Marks: 55},
	})
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	byStudent, err := f.svc.ByStudent(ctx, enrolled)
	require.NoError(t, err)
	require.Len(t, byStudent, 3)
	assert.Equal(t, "Mathematics", byStudent[0].Subject.Name)
	assert.Equal(t, "Final", byStudent[0].ExamName)
	assert.Equal(t, "Midterm", byStudent[1].ExamName)
	assert.Equal(t, "Science", byStudent[2].Subject.Name)

	bySubject, err := f.svc.BySubject(ctx, f.math.ID)
	require.NoError(t, err)
	assert.Len(t, bySubject, 3)

	byClass, err := f.svc.ByClass(ctx, f.class.ID, "Final")
	require.NoError(t, err)
	assert.Len(t, byClass, 2)

	stats, err := f.svc.Stats(ctx, enrolled)
	require.NoError(t, err)
	assert.Equal(t, assessment.Stats{TotalMarks: 241, AverageMarks: 80.33, HighestMark: 91, LowestMark: 70, SubjectCount: 2}, *stats)

	empty, err := f.svc.Stats(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, empty.SubjectCount)

	require.NoError(t, f.svc.Delete(ctx, stored[0].ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, stored[0].ID), assessment.ErrMarkNotFound)
}

func TestService_UpsertBulkRejectsWholeBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.students[0].ID

	_, err := f.svc.UpsertBulk(ctx, []MarkInput{
		{StudentID: student, SubjectID: f.math.ID, ExamName: "Final", Marks: 80},
		{StudentID: student, SubjectID: f.science.ID, ExamName: "Final", Marks: 101},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	fields, ok := shared.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "marks[1].marks", fields[0].Field)

	_, err = f.svc.UpsertBulk(ctx, []MarkInput{
		{StudentID: student, SubjectID: f.math.ID, ExamName: "Final", Marks: 80},
		{StudentID: student, SubjectID: uuid.New(), ExamName: "Final", Marks: 80},
	})
	assert.ErrorIs(t, err, academic.ErrSubjectNotFound)

	_, err = f.svc.Upsert(ctx, MarkInput{StudentID: uuid.New(), SubjectID: f.math.ID, ExamName: "Final", Marks: 80})
	assert.ErrorIs(t, err, academic.ErrStudentNotFound)

	_, err = f.svc.UpsertBulk(ctx, nil)
	assert.ErrorIs(t, err, shared.ErrValidation)

	marks, err := f.svc.ByStudent(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, marks)

	stats, err := f.svc.Stats(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, assessment.Stats{}, *stats)
}
