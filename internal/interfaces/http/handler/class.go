package handler

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appacademic "github.com/school/backend/internal/application/academic"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/shared"
)

// ClassHandler handles class sections
type ClassHandler struct {
	BaseHandler
	classes *appacademic.ClassService
}

// NewClassHandler creates a new class handler
func NewClassHandler(base BaseHandler, classes *appacademic.ClassService) *ClassHandler {
	return &ClassHandler{BaseHandler: base, classes: classes}
}

// ClassRequest is the body of create and partial update. An explicit
// null classTeacherId unassigns the class teacher.
type ClassRequest struct {
	Name           *string               `json:"name" binding:"omitempty,max=100" example:"Grade 5"`
	Section        *string               `json:"section" binding:"omitempty,max=20" example:"A"`
	Grade          *string               `json:"grade" binding:"omitempty,max=20" example:"5"`
	AcademicYear   *string               `json:"academicYear" binding:"omitempty,max=20" example:"2024-2025"`
	RoomNumber     *string               `json:"roomNumber" binding:"omitempty,max=20"`
	Capacity       *int                  `json:"capacity" example:"40"`
	ClassTeacherID json.RawMessage       `json:"classTeacherId" swaggertype:"string" format:"uuid"`
	Status         *academic.ClassStatus `json:"status" enums:"ACTIVE,INACTIVE"`
}

func (r ClassRequest) fields() (academic.ClassFields, error) {
	f := academic.ClassFields{
		Name:         r.Name,
		Section:      r.Section,
		Grade:        r.Grade,
		AcademicYear: r.AcademicYear,
		RoomNumber:   r.RoomNumber,
		Capacity:     r.Capacity,
		Status:       r.Status,
	}

	raw := bytes.TrimSpace(r.ClassTeacherID)
	switch {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")):
		f.ClearTeacher = true
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return f, invalidTeacherID()
		}
		if s == "" {
			f.ClearTeacher = true
			break
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return f, invalidTeacherID()
		}
		f.ClassTeacherID = &id
	}
	return f, nil
}

func invalidTeacherID() error {
	return shared.NewValidationError(shared.FieldError{Field: "classTeacherId", Message: "Invalid UUID format"})
}

// AssignSubjectsRequest replaces a class's subject set
type AssignSubjectsRequest struct {
	SubjectIDs []uuid.UUID `json:"subjectIds" binding:"required"`
}

// Create godoc
// @ID           createClass
// @Summary      Create a class section
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        request body ClassRequest true "Class"
// @Success      201 {object} APIResponse[appacademic.ClassDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Unknown class teacher"
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req ClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fields, err := req.fields()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	class, err := h.classes.Create(c.Request.Context(), fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, class)
}

// List godoc
// @ID           listClasses
// @Summary      List class sections with enrollment counts
// @Tags         classes
// @Produce      json
// @Param        q query string false "Name, section or grade contains"
// @Param        academicYear query string false "Academic year"
// @Param        status query string false "ACTIVE or INACTIVE"
// @Param        sort query string false "field:direction"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]appacademic.ClassDTO]
// @Security     BearerAuth
// @Router       /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	result, err := h.classes.List(c.Request.Context(), appacademic.ListClassesInput{
		Search:       search(c),
		AcademicYear: c.Query("academicYear"),
		Status:       c.Query("status"),
		Sort:         c.Query("sort"),
		Page:         page(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// Get godoc
// @ID           getClass
// @Summary      Get a class with teacher, subjects and enrollment count
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Success      200 {object} APIResponse[appacademic.ClassDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrClassNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	detail, err := h.classes.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Students godoc
// @ID           listClassStudents
// @Summary      List students enrolled in a class
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]academic.Student]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id}/students [get]
func (h *ClassHandler) Students(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrClassNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.classes.Students(c.Request.Context(), id, page(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// Update godoc
// @ID           updateClass
// @Summary      Update a class section
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Param        request body ClassRequest true "Fields to change"
// @Success      200 {object} APIResponse[appacademic.ClassDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrClassNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req ClassRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fields, err := req.fields()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	class, err := h.classes.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, class)
}

// AssignSubjects godoc
// @ID           assignClassSubjects
// @Summary      Replace the subjects taught in a class
// @Tags         classes
// @Accept       json
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Param        request body AssignSubjectsRequest true "Subject IDs"
// @Success      200 {object} APIResponse[[]academic.Subject]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id}/subjects [put]
func (h *ClassHandler) AssignSubjects(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrClassNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req AssignSubjectsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	subjects, err := h.classes.AssignSubjects(c.Request.Context(), id, req.SubjectIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, subjects)
}

// Delete godoc
// @ID           deleteClass
// @Summary      Delete a class section
// @Tags         classes
// @Produce      json
// @Param        id path string true "Class ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrClassNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.classes.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Class deleted successfully")
}
