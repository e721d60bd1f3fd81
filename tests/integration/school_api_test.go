package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/school/backend/internal/app"
	appidentity "github.com/school/backend/internal/application/identity"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/domain/report"
	"github.com/school/backend/internal/infrastructure/auth"
	"github.com/school/backend/internal/infrastructure/config"
	"github.com/school/backend/internal/infrastructure/persistence"
	"github.com/school/backend/internal/interfaces/http/middleware"
	"github.com/school/backend/internal/interfaces/http/router"
	"github.com/school/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	rootEmail    = "root@school.test"
	rootPassword = "root-password-1"
	academicYear = "2024-2025"
)

type created struct {
	ID uuid.UUID `json:"id"`
}

type apiServer struct {
	db     *TestDB
	engine *gin.Engine
	token  string
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	tdb := NewTestDB(t)

	gin.SetMode(gin.TestMode)
	identity.BcryptCost = bcrypt.MinCost
	middleware.SetupValidator()

	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:     "integration-secret-at-least-32-characters",
		Expiration: time.Hour,
		Issuer:     "school-integration",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	c := app.New(app.Options{
		DB:        tdb.DB,
		Logger:    zap.NewNop(),
		JWT:       jwt,
		Blacklist: blacklist,
		Version:   "integration",
	})

	seeded, err := c.Staff.EnsureSuperAdmin(t.Context(), "Root", rootEmail, rootPassword)
	require.NoError(t, err)
	require.True(t, seeded)

	engine, err := router.NewEngine(router.EngineConfig{
		Handlers: c.Handlers(&persistence.Database{DB: tdb.DB}),
		Guards: router.Guards{
			Authenticate: middleware.Authenticate(middleware.AuthConfig{JWT: jwt, Blacklist: blacklist, Users: c.Users}),
		},
		CORS:     middleware.DefaultCORSConfig(),
		Security: middleware.DefaultSecurityConfig(),
	})
	require.NoError(t, err)

	s := &apiServer{db: tdb, engine: engine}
	w := s.do(t, http.MethodPost, "/auth/login", gin.H{"email": rootEmail, "password": rootPassword})
	testutil.AssertSuccess(t, w, http.StatusOK)
	s.token = testutil.DecodeData[appidentity.LoginResult](t, w).Token
	return s
}

func (s *apiServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.PerformRequest(t, s.engine, method, "/api/v1"+path, body, s.token)
}

func (s *apiServer) create(t *testing.T, path string, body any) uuid.UUID {
	t.Helper()
	w := s.do(t, http.MethodPost, path, body)
	testutil.AssertSuccess(t, w, http.StatusCreated)
	return testutil.DecodeData[created](t, w).ID
}

func (s *apiServer) student(t *testing.T, code string) uuid.UUID {
	return s.create(t, "/students", gin.H{"studentId": code, "firstName": "Amara", "lastName": "Okafor"})
}

func (s *apiServer) class(t *testing.T, section string, capacity int) uuid.UUID {
	return s.create(t, "/classes", gin.H{
		"name": "Grade 5", "section": section, "grade": "5",
		"academicYear": academicYear, "capacity": capacity,
	})
}

func TestSchoolAPI_UniqueConstraintsAreConflicts(t *testing.T) {
	s := newAPIServer(t)
	s.student(t, "STU-001")

	w := s.do(t, http.MethodPost, "/students", gin.H{"studentId": "STU-001", "firstName": "Ada", "lastName": "Obi"})
	testutil.AssertError(t, w, http.StatusConflict, "DUPLICATE_ENTRY")

	s.create(t, "/subjects", gin.H{"name": "Mathematics", "code": "MATH"})
	w = s.do(t, http.MethodPost, "/subjects", gin.H{"name": "Further Mathematics", "code": "MATH"})
	testutil.AssertError(t, w, http.StatusConflict, "DUPLICATE_ENTRY")
}

func TestSchoolAPI_ConcurrentEnrollmentRespectsCapacity(t *testing.T) {
	s := newAPIServer(t)
	const capacity = 3
	classID := s.class(t, "A", capacity)

	students := make([]uuid.UUID, 8)
	for i := range students {
		students[i] = s.student(t, fmt.Sprintf("STU-%03d", i+1))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for _, id := range students {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			w := s.do(t, http.MethodPost, "/enrollments", gin.H{
				"studentId": id, "classSectionId": classID, "academicYear": academicYear,
			})
			mu.Lock()
			statuses[w.Code]++
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	assert.Equal(t, capacity, statuses[http.StatusCreated])
	assert.Equal(t, len(students)-capacity, statuses[http.StatusBadRequest])

	w := s.do(t, http.MethodGet, "/enrollments?classSectionId="+classID.String(), nil)
	env := testutil.AssertSuccess(t, w, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(capacity), env.Meta.Total)
}

func TestSchoolAPI_DayInTheLife(t *testing.T) {
	s := newAPIServer(t)
	classID := s.class(t, "B", 30)

	roster := make([]uuid.UUID, 5)
	for i := range roster {
		roster[i] = s.student(t, fmt.Sprintf("STU-%03d", i+1))
		s.create(t, "/enrollments", gin.H{"studentId": roster[i], "classSectionId": classID, "academicYear": academicYear})
	}

	today := attendance.Day(time.Now()).Format(attendance.DateLayout)
	records := make([]gin.H, len(roster))
	for i, id := range roster {
		status := "P"
		if i == 0 {
			status = "A"
		}
		records[i] = gin.H{"studentId": id, "status": status}
	}
	w := s.do(t, http.MethodPost, "/attendance/bulk", gin.H{"classSectionId": classID, "date": today, "records": records})
	testutil.AssertSuccess(t, w, http.StatusCreated)

	// marking again replaces rather than duplicates
	w = s.do(t, http.MethodPost, "/attendance/bulk", gin.H{"classSectionId": classID, "date": today, "records": records})
	testutil.AssertSuccess(t, w, http.StatusCreated)

	feeID := s.create(t, "/fees", gin.H{"studentId": roster[1], "amount": 1500, "dueDate": "2099-06-30"})
	w = s.do(t, http.MethodPost, "/fees/"+feeID.String()+"/payment", gin.H{"amountPaid": 500, "paymentMethod": "BANK_TRANSFER"})
	testutil.AssertSuccess(t, w, http.StatusOK)

	w = s.do(t, http.MethodGet, "/dashboard/stats", nil)
	testutil.AssertSuccess(t, w, http.StatusOK)
	dash := testutil.DecodeData[report.Dashboard](t, w)
	assert.Equal(t, int64(len(roster)), dash.TotalStudents)
	assert.Equal(t, int64(1), dash.TotalClasses)
	assert.Equal(t, int64(len(roster)), dash.TodayAttendanceMarked)
	assert.InDelta(t, 80.0, dash.TodayAttendancePercentage, 0.01)
	assert.Equal(t, int64(1), dash.FeesDueCount)
	assert.InDelta(t, 1000.0, dash.FeesDueAmount, 0.001)

	w = s.do(t, http.MethodGet, "/audit-logs?entity="+audit.EntityEnrollment, nil)
	env := testutil.AssertSuccess(t, w, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(len(roster)), env.Meta.Total)

	// deleting a student takes enrollments, attendance and fees with it
	w = s.do(t, http.MethodDelete, "/students/"+roster[1].String(), nil)
	testutil.AssertSuccess(t, w, http.StatusOK)

	w = s.do(t, http.MethodGet, "/fees/"+feeID.String(), nil)
	testutil.AssertError(t, w, http.StatusNotFound, "FEE_NOT_FOUND")

	var remaining int64
	require.NoError(t, s.db.DB.Table("attendance").Where("student_id = ?", roster[1]).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
