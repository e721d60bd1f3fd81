package handler

import (
	"github.com/gin-gonic/gin"
	appacademic "github.com/school/backend/internal/application/academic"
	"github.com/school/backend/internal/domain/academic"
)

// TeacherHandler handles teacher records
type TeacherHandler struct {
	BaseHandler
	teachers *appacademic.TeacherService
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(base BaseHandler, teachers *appacademic.TeacherService) *TeacherHandler {
	return &TeacherHandler{BaseHandler: base, teachers: teachers}
}

// TeacherRequest is the body of create and update. EmployeeID is only
// read on create.
type TeacherRequest struct {
	EmployeeID     string                  `json:"employeeId" binding:"max=50" example:"EMP-014"`
	FirstName      *string                 `json:"firstName" binding:"omitempty,min=2,max=100"`
	LastName       *string                 `json:"lastName" binding:"omitempty,min=2,max=100"`
	Email          *string                 `json:"email" binding:"omitempty,email"`
	Phone          *string                 `json:"phone" binding:"omitempty,max=30"`
	Specialization *string                 `json:"specialization" binding:"omitempty,max=100"`
	Qualification  *string                 `json:"qualification" binding:"omitempty,max=100"`
	Status         *academic.TeacherStatus `json:"status" enums:"ACTIVE,INACTIVE,ON_LEAVE"`
}

func (r TeacherRequest) fields() academic.TeacherFields {
	return academic.TeacherFields{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Specialization: r.Specialization,
		Qualification:  r.Qualification,
		Status:         r.Status,
	}
}

// Create godoc
// @ID           createTeacher
// @Summary      Create a teacher
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Param        request body TeacherRequest true "Teacher"
// @Success      201 {object} APIResponse[academic.Teacher]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req TeacherRequest
	if !h.bindJSON(c, &req) {
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), appacademic.CreateTeacherInput{
		EmployeeID:    req.EmployeeID,
		TeacherFields: req.fields(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, teacher)
}

// List godoc
// @ID           listTeachers
// @Summary      List teachers
// @Tags         teachers
// @Produce      json
// @Param        q query string false "Name, employee ID, email or specialization contains"
// @Param        status query string false "Teacher status"
// @Param        sort query string false "field:direction"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]academic.Teacher]
// @Security     BearerAuth
// @Router       /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	result, err := h.teachers.List(c.Request.Context(), appacademic.ListTeachersInput{
		Search: search(c),
		Status: c.Query("status"),
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
// @ID           getTeacher
// @Summary      Get a teacher
// @Tags         teachers
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Success      200 {object} APIResponse[academic.Teacher]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrTeacherNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	teacher, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// Update godoc
// @ID           updateTeacher
// @Summary      Update a teacher
// @Description  employeeId cannot be changed and is ignored
// @Tags         teachers
// @Accept       json
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Param        request body TeacherRequest true "Fields to change"
// @Success      200 {object} APIResponse[academic.Teacher]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrTeacherNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req TeacherRequest
	if !h.bindJSON(c, &req) {
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), id, req.fields())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// Delete godoc
// @ID           deleteTeacher
// @Summary      Delete a teacher
// @Tags         teachers
// @Produce      json
// @Param        id path string true "Teacher ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrTeacherNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Teacher deleted successfully")
}
