package handler

import (
	"github.com/gin-gonic/gin"
	appacademic "github.com/school/backend/internal/application/academic"
	"github.com/school/backend/internal/domain/academic"
)

// SubjectHandler handles subjects
type SubjectHandler struct {
	BaseHandler
	subjects *appacademic.SubjectService
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(base BaseHandler, subjects *appacademic.SubjectService) *SubjectHandler {
	return &SubjectHandler{BaseHandler: base, subjects: subjects}
}

// CreateSubjectRequest is the body for a new subject
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100" example:"Mathematics"`
	Code string `json:"code" binding:"required,max=20" example:"MATH"`
}

// UpdateSubjectRequest changes a subject's name or code
type UpdateSubjectRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=100"`
	Code *string `json:"code" binding:"omitempty,min=1,max=20"`
}

// Create godoc
// @ID           createSubject
// @Summary      Create a subject
// @Tags         subjects
// @Accept       json
// @Produce      json
// @Param        request body CreateSubjectRequest true "Subject"
// @Success      201 {object} APIResponse[academic.Subject]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req CreateSubjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), appacademic.CreateSubjectInput{Name: req.Name, Code: req.Code})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, subject)
}

// List godoc
// @ID           listSubjects
// @Summary      List subjects
// @Tags         subjects
// @Produce      json
// @Param        q query string false "Name or code contains"
// @Param        sort query string false "field:direction"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]academic.Subject]
// @Security     BearerAuth
// @Router       /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	result, err := h.subjects.List(c.Request.Context(), appacademic.ListSubjectsInput{
		Search: search(c),
		Sort:   c.Query("sort"),
		Page:   page(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// Get godoc
// @ID           getSubject
// @Summary      Get a subject
// @Tags         subjects
// @Produce      json
// @Param        id path string true "Subject ID" format(uuid)
// @Success      200 {object} APIResponse[academic.Subject]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrSubjectNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	subject, err := h.subjects.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subject)
}

// Update godoc
// @ID           updateSubject
// @Summary      Update a subject
// @Tags         subjects
// @Accept       json
// @Produce      json
// @Param        id path string true "Subject ID" format(uuid)
// @Param        request body UpdateSubjectRequest true "Fields to change"
// @Success      200 {object} APIResponse[academic.Subject]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrSubjectNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req UpdateSubjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	subject, err := h.subjects.Update(c.Request.Context(), id, appacademic.UpdateSubjectInput{Name: req.Name, Code: req.Code})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subject)
}

// Delete godoc
// @ID           deleteSubject
// @Summary      Delete a subject
// @Tags         subjects
// @Produce      json
// @Param        id path string true "Subject ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrSubjectNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.subjects.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Subject deleted successfully")
}
