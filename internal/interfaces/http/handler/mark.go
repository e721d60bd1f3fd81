package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appassessment "github.com/school/backend/internal/application/assessment"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/assessment"
)

// MarkHandler records exam marks
type MarkHandler struct {
	BaseHandler
	marks *appassessment.Service
}

// NewMarkHandler creates a new mark handler
func NewMarkHandler(base BaseHandler, marks *appassessment.Service) *MarkHandler {
	return &MarkHandler{BaseHandler: base, marks: marks}
}

// MarkRequest is one exam result. Marks is a pointer so that 0 is accepted.
type MarkRequest struct {
	StudentID uuid.UUID `json:"studentId" binding:"required"`
	SubjectID uuid.UUID `json:"subjectId" binding:"required"`
	ExamName  string    `json:"examName" binding:"required,max=100" example:"Midterm"`
	Marks     *float64  `json:"marks" binding:"required,min=0,max=100" example:"87.5"`
	Remarks   string    `json:"remarks" binding:"max=500"`
}

// BulkMarkRequest carries several results saved together
type BulkMarkRequest struct {
	Marks []MarkRequest `json:"marks" binding:"required,min=1,dive"`
}

func (r MarkRequest) input() appassessment.MarkInput {
	return appassessment.MarkInput{
		StudentID: r.StudentID,
		SubjectID: r.SubjectID,
		ExamName:  r.ExamName,
		Marks:     *r.Marks,
		Remarks:   r.Remarks,
	}
}

// Upsert godoc
// @ID           upsertMark
// @Summary      Record a mark
// @Description  Replaces any existing mark for the same student, subject and exam
// @Tags         marks
// @Accept       json
// @Produce      json
// @Param        request body MarkRequest true "Mark"
// @Success      201 {object} APIResponse[assessment.MarkDetail]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marks [post]
func (h *MarkHandler) Upsert(c *gin.Context) {
	var req MarkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	mark, err := h.marks.Upsert(c.Request.Context(), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, mark)
}

// UpsertBulk godoc
// @ID           upsertMarksBulk
// @Summary      Record several marks in one transaction
// @Tags         marks
// @Accept       json
// @Produce      json
// @Param        request body BulkMarkRequest true "Marks"
// @Success      201 {object} APIResponse[[]assessment.MarkDetail]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marks/bulk [post]
func (h *MarkHandler) UpsertBulk(c *gin.Context) {
	var req BulkMarkRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inputs := make([]appassessment.MarkInput, len(req.Marks))
	for i, m := range req.Marks {
		inputs[i] = m.input()
	}
	marks, err := h.marks.UpsertBulk(c.Request.Context(), inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, marks)
}

// ByStudent godoc
// @ID           listStudentMarks
// @Summary      Marks of a student by subject and exam
// @Tags         marks
// @Produce      json
// @Param        studentId path string true "Student ID" format(uuid)
// @Success      200 {object} APIResponse[[]assessment.MarkDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marks/student/{studentId} [get]
func (h *MarkHandler) ByStudent(c *gin.Context) {
	id, err := pathID(c, "studentId", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	marks, err := h.marks.ByStudent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, marks)
}

// StudentStats godoc
// @ID           studentMarkStats
// @Summary      Total, average, highest and lowest mark of a student
// @Tags         marks
// @Produce      json
// @Param        studentId path string true "Student ID" format(uuid)
// @Success      200 {object} APIResponse[assessment.Stats]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marks/student/{studentId}/stats [get]
func (h *MarkHandler) StudentStats(c *gin.Context) {
	id, err := pathID(c, "studentId", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	stats, err := h.marks.Stats(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// BySubject godoc
// @ID           listSubjectMarks
// @Summary      Marks recorded for a subject
// @Tags         marks
// @Produce      json
// @Param        subjectId path string true "Subject ID" format(uuid)
// @Success      200 {object} APIResponse[[]assessment.MarkDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marks/subject/{subjectId} [get]
func (h *MarkHandler) BySubject(c *gin.Context) {
	id, err := pathID(c, "subjectId", academic.ErrSubjectNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	marks, err := h.marks.BySubject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, marks)
}

// ByClass godoc
// @ID           listClassMarks
// @Summary      Marks of the students enrolled in a class
// @Tags         marks
// @Produce      json
// @Param        classSectionId path string true "Class ID" format(uuid)
// @Param        examName query string false "Exam name"
// @Success      200 {object} APIResponse[[]assessment.MarkDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marks/class/{classSectionId} [get]
func (h *MarkHandler) ByClass(c *gin.Context) {
	id, err := pathID(c, "classSectionId", academic.ErrClassNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	marks, err := h.marks.ByClass(c.Request.Context(), id, c.Query("examName"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, marks)
}

// Delete godoc
// @ID           deleteMark
// @Summary      Delete a mark
// @Tags         marks
// @Produce      json
// @Param        id path string true "Mark ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /marks/{id} [delete]
func (h *MarkHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", assessment.ErrMarkNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.marks.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Mark deleted successfully")
}
