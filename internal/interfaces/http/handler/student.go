package handler

import (
	"github.com/gin-gonic/gin"
	appacademic "github.com/school/backend/internal/application/academic"
	"github.com/school/backend/internal/domain/academic"
)

// StudentHandler handles student records
type StudentHandler struct {
	BaseHandler
	students *appacademic.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(base BaseHandler, students *appacademic.StudentService) *StudentHandler {
	return &StudentHandler{BaseHandler: base, students: students}
}

// StudentRequest is the body of create and partial update. Omitted
// fields keep their value on update.
type StudentRequest struct {
	StudentID     *string                 `json:"studentId" binding:"omitempty,max=50" example:"STU-2024-001"`
	FirstName     *string                 `json:"firstName" binding:"omitempty,max=100" example:"Amara"`
	LastName      *string                 `json:"lastName" binding:"omitempty,max=100" example:"Okafor"`
	Email         *string                 `json:"email" binding:"omitempty,max=255"`
	Phone         *string                 `json:"phone" binding:"omitempty,max=30"`
	DateOfBirth   *string                 `json:"dateOfBirth" example:"2012-04-18"`
	Gender        *academic.Gender        `json:"gender" enums:"MALE,FEMALE,OTHER"`
	Address       *string                 `json:"address" binding:"omitempty,max=500"`
	GuardianName  *string                 `json:"guardianName" binding:"omitempty,max=100"`
	GuardianPhone *string                 `json:"guardianPhone" binding:"omitempty,max=30"`
	GuardianEmail *string                 `json:"guardianEmail" binding:"omitempty,max=255"`
	Status        *academic.StudentStatus `json:"status" enums:"ACTIVE,INACTIVE,GRADUATED,TRANSFERRED"`
}

func (r StudentRequest) fields() (academic.StudentFields, error) {
	dob, err := optionalDate("dateOfBirth", r.DateOfBirth)
	if err != nil {
		return academic.StudentFields{}, err
	}
	return academic.StudentFields{
		StudentID:     r.StudentID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         r.Phone,
		DateOfBirth:   dob,
		Gender:        r.Gender,
		Address:       r.Address,
		GuardianName:  r.GuardianName,
		GuardianPhone: r.GuardianPhone,
		GuardianEmail: r.GuardianEmail,
		Status:        r.Status,
	}, nil
}

// Create godoc
// @ID           createStudent
// @Summary      Create a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        request body StudentRequest true "Student"
// @Success      201 {object} APIResponse[academic.Student]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req StudentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fields, err := req.fields()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	student, err := h.students.Create(c.Request.Context(), fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, student)
}

// List godoc
// @ID           listStudents
// @Summary      List students
// @Tags         students
// @Produce      json
// @Param        q query string false "Name, student ID or email contains"
// @Param        status query string false "Student status"
// @Param        sort query string false "field:direction, e.g. lastName:asc"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]academic.Student]
// @Security     BearerAuth
// @Router       /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	result, err := h.students.List(c.Request.Context(), appacademic.ListStudentsInput{
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
// @ID           getStudent
// @Summary      Get a student with enrollments, recent attendance and fees
// @Tags         students
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Success      200 {object} APIResponse[appacademic.StudentDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	detail, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Update godoc
// @ID           updateStudent
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Param        request body StudentRequest true "Fields to change"
// @Success      200 {object} APIResponse[academic.Student]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req StudentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fields, err := req.fields()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// Delete godoc
// @ID           deleteStudent
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Param        id path string true "Student ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Student deleted successfully")
}
