package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/finance"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"entity not found", academic.ErrStudentNotFound, http.StatusNotFound, "STUDENT_NOT_FOUND", "Student not found"},
		{"wrapped domain error", fmt.Errorf("enroll: %w", academic.ErrClassFull), http.StatusBadRequest, "CLASS_FULL", academic.ErrClassFull.Message},
		{"overpayment", finance.ErrOverpayment, http.StatusBadRequest, "OVERPAYMENT", finance.ErrOverpayment.Message},
		{"duplicate", shared.ErrDuplicate, http.StatusConflict, "DUPLICATE_ENTRY", shared.ErrDuplicate.Message},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "Access denied. Insufficient permissions."},
		{"plain error", errors.New("connection reset by peer"), http.StatusInternalServerError, "INTERNAL_ERROR", unexpectedErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/")
			h := BaseHandler{}
			h.HandleError(c, tt.err)

			env := testutil.AssertError(t, w, tt.status, tt.code)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestHandleError_ExposeErrors(t *testing.T) {
	c, w := newContext(http.MethodGet, "/")
	h := BaseHandler{ExposeErrors: true}
	h.HandleError(c, errors.New("pq: relation does not exist"))

	env := testutil.AssertError(t, w, http.StatusInternalServerError, "INTERNAL_ERROR")
	assert.Equal(t, "pq: relation does not exist", env.Error.Message)
}

func TestHandleError_KeepsFieldDetails(t *testing.T) {
	c, w := newContext(http.MethodPost, "/")
	h := BaseHandler{}
	h.HandleError(c, shared.NewValidationError(shared.FieldError{Field: "email", Message: "Invalid email"}))

	env := testutil.AssertError(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	assert.JSONEq(t, `[{"field":"email","message":"Invalid email"}]`, string(env.Error.Details))
}

func TestBaseHandler_Responses(t *testing.T) {
	h := BaseHandler{}

	c, w := newContext(http.MethodPost, "/")
	h.Created(c, gin.H{"id": 1})
	testutil.AssertSuccess(t, w, http.StatusCreated)

	c, w = newContext(http.MethodDelete, "/")
	h.Message(c, "Student deleted successfully")
	data := testutil.DecodeData[MessageData](t, w)
	assert.Equal(t, "Student deleted successfully", data.Message)

	c, w = newContext(http.MethodGet, "/")
	List(c, shared.NewPaginated([]string{"a", "b"}, 12, shared.Page{Page: 2, Limit: 2}))
	env := testutil.AssertSuccess(t, w, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(12), env.Meta.Total)
	assert.Equal(t, 6, env.Meta.TotalPages)
}

func TestPathID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/students/not-a-uuid")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, err := pathID(c, "id", academic.ErrStudentNotFound)
	assert.ErrorIs(t, err, academic.ErrStudentNotFound)

	id := testutil.NewTestUUID("student")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, err := pathID(c, "id", academic.ErrStudentNotFound)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestQueryID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/fees?studentId=bogus")
	_, err := queryID(c, "studentId")
	fields, ok := shared.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "studentId", fields[0].Field)

	c, _ = newContext(http.MethodGet, "/fees")
	id, err := queryID(c, "studentId")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("dueDate", "2024-10-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-01", d.Format(dateLayout))

	d, err = parseDate("dueDate", "2024-10-01T23:30:00-02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-02", d.Format(dateLayout))

	_, err = parseDate("dueDate", "01/10/2024")
	assert.ErrorIs(t, err, shared.ErrValidation)

	empty := "  "
	got, err := optionalDate("dateOfBirth", &empty)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSearch(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/students?search=okafor")
	assert.Equal(t, "okafor", search(c))

	c, _ = newContext(http.MethodGet, "/students?q=amara&search=okafor")
	assert.Equal(t, "amara", search(c))
}
