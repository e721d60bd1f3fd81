package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appacademic "github.com/school/backend/internal/application/academic"
	"github.com/school/backend/internal/domain/academic"
)

// EnrollmentHandler places students into classes
type EnrollmentHandler struct {
	BaseHandler
	enrollments *appacademic.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(base BaseHandler, enrollments *appacademic.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{BaseHandler: base, enrollments: enrollments}
}

// EnrollRequest is the body of an enrollment
type EnrollRequest struct {
	StudentID      uuid.UUID `json:"studentId" binding:"required"`
	ClassSectionID uuid.UUID `json:"classSectionId" binding:"required"`
	AcademicYear   string    `json:"academicYear" binding:"required,max=20" example:"2024-2025"`
}

// Create godoc
// @ID           createEnrollment
// @Summary      Enroll a student in a class
// @Description  Fails with CLASS_FULL once the class holds capacity students for the academic year
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Param        request body EnrollRequest true "Enrollment"
// @Success      201 {object} APIResponse[academic.EnrollmentDetail]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), appacademic.EnrollInput{
		StudentID:      req.StudentID,
		ClassSectionID: req.ClassSectionID,
		AcademicYear:   req.AcademicYear,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, enrollment)
}

// List godoc
// @ID           listEnrollments
// @Summary      List enrollments
// @Tags         enrollments
// @Produce      json
// @Param        studentId query string false "Student ID" format(uuid)
// @Param        classSectionId query string false "Class ID" format(uuid)
// @Param        academicYear query string false "Academic year"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]academic.EnrollmentDetail]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	studentID, err := queryID(c, "studentId")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	classID, err := queryID(c, "classSectionId")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.enrollments.List(c.Request.Context(), appacademic.ListEnrollmentsInput{
		StudentID:      studentID,
		ClassSectionID: classID,
		AcademicYear:   c.Query("academicYear"),
		Page:           page(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// Delete godoc
// @ID           deleteEnrollment
// @Summary      Remove an enrollment
// @Tags         enrollments
// @Produce      json
// @Param        id path string true "Enrollment ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrEnrollmentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.enrollments.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Enrollment deleted successfully")
}
