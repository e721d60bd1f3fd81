package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appattendance "github.com/school/backend/internal/application/attendance"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/interfaces/http/dto"
)

// AttendanceHandler marks and reports attendance
type AttendanceHandler struct {
	BaseHandler
	attendance *appattendance.Service
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(base BaseHandler, svc *appattendance.Service) *AttendanceHandler {
	return &AttendanceHandler{BaseHandler: base, attendance: svc}
}

// AttendanceEntry is one student's line in a marking request
type AttendanceEntry struct {
	StudentID uuid.UUID `json:"studentId" binding:"required"`
	Status    string    `json:"status" binding:"required,attendance_status" example:"P"`
	Remarks   string    `json:"remarks" binding:"max=500"`
}

// MarkAttendanceRequest marks a class for one day
type MarkAttendanceRequest struct {
	ClassSectionID uuid.UUID         `json:"classSectionId" binding:"required"`
	Date           string            `json:"date" binding:"required" example:"2024-09-02"`
	Records        []AttendanceEntry `json:"records" binding:"required,min=1,dive"`
}

// UpdateAttendanceRequest changes a single record
type UpdateAttendanceRequest struct {
	Status  string  `json:"status" binding:"required,attendance_status"`
	Remarks *string `json:"remarks" binding:"omitempty,max=500"`
}

// HistoryData is a student's attendance page with overall stats
type HistoryData struct {
	Records []attendance.RecordDetail `json:"records"`
	Summary attendance.Stats          `json:"summary"`
}

// Mark godoc
// @ID           markAttendance
// @Summary      Mark attendance for a class
// @Description  Upserts one row per (student, date). Records are saved independently; failures are reported per student.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body MarkAttendanceRequest true "Attendance sheet"
// @Success      201 {object} APIResponse[appattendance.BulkResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance [post]
// @Router       /attendance/bulk [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req MarkAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	records := make([]appattendance.MarkEntryInput, len(req.Records))
	for i, r := range req.Records {
		records[i] = appattendance.MarkEntryInput{StudentID: r.StudentID, Status: r.Status, Remarks: r.Remarks}
	}

	result, err := h.attendance.MarkBulk(c.Request.Context(), appattendance.MarkBulkInput{
		ClassSectionID: req.ClassSectionID,
		Date:           req.Date,
		Records:        records,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update godoc
// @ID           updateAttendance
// @Summary      Update one attendance record
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        id path string true "Record ID" format(uuid)
// @Param        request body UpdateAttendanceRequest true "Status and remarks"
// @Success      200 {object} APIResponse[attendance.Record]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance/{id} [put]
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", attendance.ErrNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req UpdateAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	record, err := h.attendance.Update(c.Request.Context(), id, appattendance.UpdateInput{
		Status:  req.Status,
		Remarks: req.Remarks,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// List godoc
// @ID           listAttendance
// @Summary      List attendance records, newest day first
// @Tags         attendance
// @Produce      json
// @Param        classSectionId query string false "Class ID" format(uuid)
// @Param        studentId query string false "Student ID" format(uuid)
// @Param        date query string false "Exact day, YYYY-MM-DD"
// @Param        startDate query string false "Range start, YYYY-MM-DD"
// @Param        endDate query string false "Range end, YYYY-MM-DD"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]attendance.RecordDetail]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	classID, err := queryID(c, "classSectionId")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	studentID, err := queryID(c, "studentId")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.attendance.List(c.Request.Context(), appattendance.ListInput{
		ClassSectionID: classID,
		StudentID:      studentID,
		Date:           c.Query("date"),
		StartDate:      c.Query("startDate"),
		EndDate:        c.Query("endDate"),
		Page:           page(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// ClassRoster godoc
// @ID           classAttendanceRoster
// @Summary      Attendance sheet of a class for one day
// @Tags         attendance
// @Produce      json
// @Param        classSectionId path string true "Class ID" format(uuid)
// @Param        date query string false "Day, YYYY-MM-DD; defaults to today"
// @Success      200 {object} APIResponse[appattendance.ClassRoster]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance/class/{classSectionId} [get]
func (h *AttendanceHandler) ClassRoster(c *gin.Context) {
	classID, err := pathID(c, "classSectionId", academic.ErrClassNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	roster, err := h.attendance.ClassRoster(c.Request.Context(), classID, c.Query("date"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roster)
}

// History godoc
// @ID           studentAttendanceHistory
// @Summary      A student's attendance history with summary
// @Tags         attendance
// @Produce      json
// @Param        studentId path string true "Student ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[HistoryData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance/history/{studentId} [get]
// @Router       /attendance/student/{studentId} [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	studentID, err := pathID(c, "studentId", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	history, err := h.attendance.History(c.Request.Context(), studentID, page(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := dto.NewListResponse(history.Paginated)
	resp.Data = HistoryData{Records: history.Items, Summary: history.Summary}
	c.JSON(http.StatusOK, resp)
}

// Stats godoc
// @ID           studentAttendanceStats
// @Summary      A student's attendance totals and rate
// @Tags         attendance
// @Produce      json
// @Param        studentId path string true "Student ID" format(uuid)
// @Success      200 {object} APIResponse[attendance.Stats]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attendance/stats/{studentId} [get]
func (h *AttendanceHandler) Stats(c *gin.Context) {
	studentID, err := pathID(c, "studentId", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	stats, err := h.attendance.Stats(c.Request.Context(), studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
