package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appacademic "github.com/school/backend/internal/application/academic"
	appassessment "github.com/school/backend/internal/application/assessment"
	appattendance "github.com/school/backend/internal/application/attendance"
	appaudit "github.com/school/backend/internal/application/audit"
	appfinance "github.com/school/backend/internal/application/finance"
	"github.com/school/backend/internal/domain/assessment"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/infrastructure/persistence"
	"github.com/school/backend/internal/interfaces/http/middleware"
	"github.com/school/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	os.Exit(m.Run())
}

// schoolFixture serves a subset of the API over an in-memory SQLite
// database with the real services behind it.
type schoolFixture struct {
	engine *gin.Engine
}

func newSchoolFixture(t *testing.T) *schoolFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()

	students := persistence.NewGormStudentRepository(db)
	classes := persistence.NewGormClassRepository(db)
	subjects := persistence.NewGormSubjectRepository(db)
	teachers := persistence.NewGormTeacherRepository(db)
	enrollments := persistence.NewGormEnrollmentRepository(db)
	records := persistence.NewGormAttendanceRepository(db)
	fees := persistence.NewGormFeeRepository(db)
	marks := persistence.NewGormMarkRepository(db)
	recorder := appaudit.NewRecorder(persistence.NewGormAuditRepository(db), log)

	base := BaseHandler{}
	studentH := NewStudentHandler(base, appacademic.NewStudentService(students, enrollments, records, fees, recorder, log))
	classH := NewClassHandler(base, appacademic.NewClassService(classes, teachers, subjects, students, recorder, log))
	subjectH := NewSubjectHandler(base, appacademic.NewSubjectService(subjects, recorder, log))
	enrollH := NewEnrollmentHandler(base, appacademic.NewEnrollmentService(enrollments, students, classes, recorder, log))
	attendanceH := NewAttendanceHandler(base, appattendance.NewService(records, classes, students, recorder, log,
		appattendance.WithMaxConcurrency(1)))
	feeH := NewFeeHandler(base, appfinance.NewFeeService(fees, students, recorder, log))
	markH := NewMarkHandler(base, appassessment.NewService(marks, students, subjects, classes, recorder, log))

	r := gin.New()
	r.POST("/students", studentH.Create)
	r.GET("/students/:id", studentH.Get)
	r.POST("/classes", classH.Create)
	r.POST("/subjects", subjectH.Create)
	r.POST("/enrollments", enrollH.Create)
	r.POST("/attendance", attendanceH.Mark)
	r.GET("/attendance/history/:studentId", attendanceH.History)
	r.PUT("/attendance/:id", attendanceH.Update)
	r.POST("/fees", feeH.Create)
	r.POST("/fees/:id/payment", feeH.RecordPayment)
	r.PATCH("/fees/:id/pay", feeH.Pay)
	r.GET("/fees/summary", feeH.Summary)
	r.POST("/marks", markH.Upsert)
	r.GET("/marks/student/:studentId/stats", markH.StudentStats)
	return &schoolFixture{engine: r}
}

type created struct {
	ID uuid.UUID `json:"id"`
}

func (f *schoolFixture) create(t *testing.T, path string, body any) uuid.UUID {
	t.Helper()
	w := testutil.PerformRequest(t, f.engine, http.MethodPost, path, body, "")
	testutil.AssertSuccess(t, w, http.StatusCreated)
	return testutil.DecodeData[created](t, w).ID
}

func (f *schoolFixture) student(t *testing.T, code string) uuid.UUID {
	return f.create(t, "/students", gin.H{"studentId": code, "firstName": "Amara", "lastName": "Okafor"})
}

func (f *schoolFixture) class(t *testing.T, capacity int) uuid.UUID {
	return f.create(t, "/classes", gin.H{"name": "Grade 5", "section": "A", "grade": "5", "academicYear": "2024-2025", "capacity": capacity})
}

func TestStudentHandler_CreateAndGet(t *testing.T) {
	f := newSchoolFixture(t)
	id := f.student(t, "STU-001")

	w := testutil.PerformRequest(t, f.engine, http.MethodGet, "/students/"+id.String(), nil, "")
	testutil.AssertSuccess(t, w, http.StatusOK)

	w = testutil.PerformRequest(t, f.engine, http.MethodGet, "/students/not-a-uuid", nil, "")
	testutil.AssertError(t, w, http.StatusNotFound, "STUDENT_NOT_FOUND")

	w = testutil.PerformRequest(t, f.engine, http.MethodPost, "/students", gin.H{"studentId": "STU-001", "firstName": "Ada", "lastName": "Obi"}, "")
	testutil.AssertError(t, w, http.StatusConflict, "DUPLICATE_ENTRY")

	w = testutil.PerformRequest(t, f.engine, http.MethodPost, "/students", gin.H{"firstName": "Ada"}, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestEnrollmentHandler_ClassFull(t *testing.T) {
	f := newSchoolFixture(t)
	classID := f.class(t, 1)
	first := f.student(t, "STU-001")
	second := f.student(t, "STU-002")

	f.create(t, "/enrollments", gin.H{"studentId": first, "classSectionId": classID, "academicYear": "2024-2025"})

	w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/enrollments",
		gin.H{"studentId": second, "classSectionId": classID, "academicYear": "2024-2025"}, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "CLASS_FULL")
}

func TestAttendanceHandler_MarkAndHistory(t *testing.T) {
	f := newSchoolFixture(t)
	classID := f.class(t, 30)
	studentID := f.student(t, "STU-001")

	body := gin.H{"classSectionId": classID, "date": "2024-09-02", "records": []gin.H{{"studentId": studentID, "status": "P"}}}
	w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/attendance", body, "")
	testutil.AssertSuccess(t, w, http.StatusCreated)
	result := testutil.DecodeData[appattendance.BulkResult](t, w)
	require.Len(t, result.Records, 1)

	// Marking the same day again replaces the row
	body["records"] = []gin.H{{"studentId": studentID, "status": "L", "remarks": "bus delay"}}
	w = testutil.PerformRequest(t, f.engine, http.MethodPost, "/attendance", body, "")
	testutil.AssertSuccess(t, w, http.StatusCreated)

	w = testutil.PerformRequest(t, f.engine, http.MethodGet, "/attendance/history/"+studentID.String(), nil, "")
	env := testutil.AssertSuccess(t, w, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	history := testutil.DecodeData[HistoryData](t, w)
	require.Len(t, history.Records, 1)
	assert.Equal(t, attendance.StatusLate, history.Records[0].Status)
	assert.Equal(t, int64(1), history.Summary.Late)
	assert.Equal(t, 100.0, history.Summary.AttendanceRate)

	w = testutil.PerformRequest(t, f.engine, http.MethodPut, "/attendance/"+history.Records[0].ID.String(), gin.H{"status": "A"}, "")
	testutil.AssertSuccess(t, w, http.StatusOK)
}

func TestAttendanceHandler_RejectsUnknownStatus(t *testing.T) {
	f := newSchoolFixture(t)
	body := gin.H{"classSectionId": uuid.New(), "date": "2024-09-02", "records": []gin.H{{"studentId": uuid.New(), "status": "X"}}}

	w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/attendance", body, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestFeeHandler_PaymentLifecycle(t *testing.T) {
	f := newSchoolFixture(t)
	studentID := f.student(t, "STU-001")
	feeID := f.create(t, "/fees", gin.H{"studentId": studentID, "amount": 1000, "dueDate": "2099-01-31"})

	w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/fees/"+feeID.String()+"/payment",
		gin.H{"amountPaid": 400, "paymentMethod": "CASH"}, "")
	testutil.AssertSuccess(t, w, http.StatusOK)
	result := testutil.DecodeData[appfinance.PaymentResult](t, w)
	assert.Equal(t, "PARTIAL", result.Fee.Status)
	assert.Equal(t, 600.0, result.Fee.Balance)

	w = testutil.PerformRequest(t, f.engine, http.MethodPost, "/fees/"+feeID.String()+"/payment",
		gin.H{"amountPaid": 700, "paymentMethod": "CARD"}, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "OVERPAYMENT")

	w = testutil.PerformRequest(t, f.engine, http.MethodPost, "/fees/"+feeID.String()+"/payment",
		gin.H{"amountPaid": 10, "paymentMethod": "BARTER"}, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = testutil.PerformRequest(t, f.engine, http.MethodPatch, "/fees/"+feeID.String()+"/pay", nil, "")
	testutil.AssertSuccess(t, w, http.StatusOK)
	fee := testutil.DecodeData[appfinance.FeeDTO](t, w)
	assert.Equal(t, "PAID", fee.Status)

	w = testutil.PerformRequest(t, f.engine, http.MethodPatch, "/fees/"+feeID.String()+"/pay", nil, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "ALREADY_PAID")

	w = testutil.PerformRequest(t, f.engine, http.MethodGet, "/fees/summary?studentId="+studentID.String(), nil, "")
	summary := testutil.DecodeData[appfinance.SummaryDTO](t, w)
	assert.Equal(t, 1000.0, summary.TotalAmount)
	assert.Equal(t, 1000.0, summary.PaidAmount)
	assert.Zero(t, summary.PendingAmount)
}

func TestFeeHandler_CreateForMissingStudent(t *testing.T) {
	f := newSchoolFixture(t)

	w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/fees",
		gin.H{"studentId": uuid.New(), "amount": 50, "dueDate": "2099-01-31"}, "")
	testutil.AssertError(t, w, http.StatusNotFound, "STUDENT_NOT_FOUND")

	w = testutil.PerformRequest(t, f.engine, http.MethodPost, "/fees",
		gin.H{"studentId": uuid.New(), "amount": 50, "dueDate": "soon"}, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestMarkHandler_UpsertAndStats(t *testing.T) {
	f := newSchoolFixture(t)
	studentID := f.student(t, "STU-001")
	subjectID := f.create(t, "/subjects", gin.H{"name": "Mathematics", "code": "MATH"})

	mark := gin.H{"studentId": studentID, "subjectId": subjectID, "examName": "Midterm", "marks": 0}
	f.create(t, "/marks", mark)

	mark["marks"] = 88.5
	w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/marks", mark, "")
	testutil.AssertSuccess(t, w, http.StatusCreated)
	detail := testutil.DecodeData[assessment.MarkDetail](t, w)
	assert.Equal(t, 88.5, detail.Marks)

	w = testutil.PerformRequest(t, f.engine, http.MethodGet, "/marks/student/"+studentID.String()+"/stats", nil, "")
	stats := testutil.DecodeData[assessment.Stats](t, w)
	assert.Equal(t, 1, stats.SubjectCount)
	assert.Equal(t, 88.5, stats.AverageMarks)

	mark["marks"] = 101
	w = testutil.PerformRequest(t, f.engine, http.MethodPost, "/marks", mark, "")
	testutil.AssertError(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		pinger   stubPinger
		status   int
		database string
	}{
		{"database up", stubPinger{}, http.StatusOK, "ok"},
		{"database down", stubPinger{err: errors.New("dial tcp: connection refused")}, http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewSystemHandler(tt.pinger, "1.2.3").Health)

			w := testutil.PerformRequest(t, r, http.MethodGet, "/health", nil, "")
			assert.Equal(t, tt.status, w.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.database, body.Database)
			assert.Equal(t, "1.2.3", body.Version)
			assert.NotEmpty(t, body.Timestamp)
		})
	}
}
