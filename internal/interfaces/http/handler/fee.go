package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfinance "github.com/school/backend/internal/application/finance"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/finance"
)

// FeeHandler raises fees and records payments
type FeeHandler struct {
	BaseHandler
	fees *appfinance.FeeService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(base BaseHandler, fees *appfinance.FeeService) *FeeHandler {
	return &FeeHandler{BaseHandler: base, fees: fees}
}

// CreateFeeRequest raises a fee against a student
type CreateFeeRequest struct {
	StudentID    uuid.UUID `json:"studentId" binding:"required"`
	Amount       float64   `json:"amount" binding:"required,gt=0" example:"1500"`
	DueDate      string    `json:"dueDate" binding:"required" example:"2024-10-01"`
	Type         string    `json:"type" binding:"max=50" example:"TUITION"`
	AcademicYear string    `json:"academicYear" binding:"max=20"`
	Description  string    `json:"description" binding:"max=500"`
}

// UpdateFeeRequest changes the editable fields of a fee
type UpdateFeeRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	DueDate     *string  `json:"dueDate"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Type        *string  `json:"type" binding:"omitempty,max=50"`
}

// RecordPaymentRequest records a full or partial payment
type RecordPaymentRequest struct {
	AmountPaid    float64 `json:"amountPaid" binding:"required,gt=0" example:"500"`
	PaymentMethod string  `json:"paymentMethod" binding:"required,oneof=CASH CARD BANK_TRANSFER CHEQUE ONLINE"`
	TransactionID string  `json:"transactionId" binding:"max=100"`
	Remarks       string  `json:"remarks" binding:"max=500"`
}

// PayFeeRequest is the optional body of the pay-in-full call
type PayFeeRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=CASH CARD BANK_TRANSFER CHEQUE ONLINE"`
}

// Create godoc
// @ID           createFee
// @Summary      Raise a fee
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body CreateFeeRequest true "Fee"
// @Success      201 {object} APIResponse[appfinance.FeeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees [post]
func (h *FeeHandler) Create(c *gin.Context) {
	var req CreateFeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	fee, err := h.fees.Create(c.Request.Context(), appfinance.CreateFeeInput{
		StudentID:    req.StudentID,
		Amount:       req.Amount,
		DueDate:      due,
		Type:         req.Type,
		AcademicYear: req.AcademicYear,
		Description:  req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, fee)
}

// RecordPayment godoc
// @ID           recordFeePayment
// @Summary      Record a payment against a fee
// @Description  Payments larger than the outstanding balance are rejected with OVERPAYMENT
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        id path string true "Fee ID" format(uuid)
// @Param        request body RecordPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[appfinance.PaymentResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees/{id}/payment [post]
func (h *FeeHandler) RecordPayment(c *gin.Context) {
	id, err := pathID(c, "id", finance.ErrFeeNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.fees.RecordPayment(c.Request.Context(), id, appfinance.RecordPaymentInput{
		Amount:        req.AmountPaid,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Remarks:       req.Remarks,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Pay godoc
// @ID           payFee
// @Summary      Pay the outstanding balance of a fee
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        id path string true "Fee ID" format(uuid)
// @Param        request body PayFeeRequest false "Payment method, CASH by default"
// @Success      200 {object} APIResponse[appfinance.FeeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees/{id}/pay [patch]
func (h *FeeHandler) Pay(c *gin.Context) {
	id, err := pathID(c, "id", finance.ErrFeeNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req PayFeeRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	fee, err := h.fees.PayInFull(c.Request.Context(), id, req.PaymentMethod)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fee)
}

// List godoc
// @ID           listFees
// @Summary      List fees, latest due date first
// @Tags         fees
// @Produce      json
// @Param        studentId query string false "Student ID" format(uuid)
// @Param        status query string false "DUE, PARTIAL or PAID"
// @Param        type query string false "Fee type"
// @Param        academicYear query string false "Academic year"
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]appfinance.FeeDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	studentID, err := queryID(c, "studentId")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.fees.List(c.Request.Context(), appfinance.ListFeesInput{
		StudentID:    studentID,
		Status:       c.Query("status"),
		Type:         c.Query("type"),
		AcademicYear: c.Query("academicYear"),
		Page:         page(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// Get godoc
// @ID           getFee
// @Summary      Get a fee with its payments
// @Tags         fees
// @Produce      json
// @Param        id path string true "Fee ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.FeeDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees/{id} [get]
func (h *FeeHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", finance.ErrFeeNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	fee, err := h.fees.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fee)
}

// ByStudent godoc
// @ID           listStudentFees
// @Summary      Every fee of a student
// @Tags         fees
// @Produce      json
// @Param        studentId path string true "Student ID" format(uuid)
// @Success      200 {object} APIResponse[[]appfinance.FeeDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees/student/{studentId} [get]
func (h *FeeHandler) ByStudent(c *gin.Context) {
	studentID, err := pathID(c, "studentId", academic.ErrStudentNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	fees, err := h.fees.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fees)
}

// Summary godoc
// @ID           feeSummary
// @Summary      Fee totals, optionally for one student
// @Tags         fees
// @Produce      json
// @Param        studentId query string false "Student ID" format(uuid)
// @Success      200 {object} APIResponse[appfinance.SummaryDTO]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees/summary [get]
func (h *FeeHandler) Summary(c *gin.Context) {
	studentID, err := queryID(c, "studentId")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	summary, err := h.fees.Summary(c.Request.Context(), studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update godoc
// @ID           updateFee
// @Summary      Update a fee
// @Description  The amount may not drop below what has already been paid
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        id path string true "Fee ID" format(uuid)
// @Param        request body UpdateFeeRequest true "Fields to change"
// @Success      200 {object} APIResponse[appfinance.FeeDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees/{id} [put]
func (h *FeeHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id", finance.ErrFeeNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req UpdateFeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	due, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	fee, err := h.fees.Update(c.Request.Context(), id, appfinance.UpdateFeeInput{
		Amount:      req.Amount,
		DueDate:     due,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fee)
}

// Delete godoc
// @ID           deleteFee
// @Summary      Delete a fee and its payments
// @Tags         fees
// @Produce      json
// @Param        id path string true "Fee ID" format(uuid)
// @Success      200 {object} APIResponse[MessageData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fees/{id} [delete]
func (h *FeeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id", finance.ErrFeeNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.fees.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Fee deleted successfully")
}
