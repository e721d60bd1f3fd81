package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/finance"
	"github.com/school/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateFeeInput contains input for raising a fee
type CreateFeeInput struct {
	StudentID    uuid.UUID
	Amount       float64
	DueDate      time.Time
	Type         string
	AcademicYear string
	Description  string
}

// UpdateFeeInput contains the editable fee fields
type UpdateFeeInput struct {
	Amount      *float64
	DueDate     *time.Time
	Description *string
	Type        *string
}

// RecordPaymentInput contains input for a (possibly partial) payment
type RecordPaymentInput struct {
	Amount        float64
	PaymentMethod string
	TransactionID string
	Remarks       string
}

// ListFeesInput contains the fee listing query
type ListFeesInput struct {
	StudentID    *uuid.UUID
	Status       string
	Type         string
	AcademicYear string
	Page         shared.Page
}

// FeeDTO is the API view of a fee. Money is rendered as JSON numbers.
type FeeDTO struct {
	ID            uuid.UUID            `json:"id"`
	StudentID     uuid.UUID            `json:"studentId"`
	Type          string               `json:"type"`
	AcademicYear  string               `json:"academicYear"`
	Description   string               `json:"description"`
	Amount        float64              `json:"amount"`
	PaidAmount    float64              `json:"paidAmount"`
	Balance       float64              `json:"balance"`
	DueDate       time.Time            `json:"dueDate"`
	Status        string               `json:"status"`
	IsOverdue     bool                 `json:"isOverdue"`
	PaymentDate   *time.Time           `json:"paymentDate"`
	PaymentMethod *string              `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Student       *academic.StudentRef `json:"student,omitempty"`
	Payments      []PaymentDTO         `json:"payments,omitempty"`
}

// PaymentDTO is the API view of a payment
type PaymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	FeeID         uuid.UUID  `json:"feeId"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	TransactionID string     `json:"transactionId"`
	Remarks       string     `json:"remarks"`
	RecordedBy    *uuid.UUID `json:"recordedBy"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PaymentResult is returned after a payment is recorded
type PaymentResult struct {
	Fee     FeeDTO     `json:"fee"`
	Payment PaymentDTO `json:"payment"`
}

// SummaryDTO totals fees
type SummaryDTO struct {
	TotalAmount   float64 `json:"totalAmount"`
	PaidAmount    float64 `json:"paidAmount"`
	PendingAmount float64 `json:"pendingAmount"`
	OverdueAmount float64 `json:"overdueAmount"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ToFeeDTO converts a domain fee as of now
func ToFeeDTO(f *finance.Fee, now time.Time) FeeDTO {
	dto := FeeDTO{
		ID:           f.ID,
		StudentID:    f.StudentID,
		Type:         f.Type,
		AcademicYear: f.AcademicYear,
		Description:  f.Description,
		Amount:       money(f.Amount),
		PaidAmount:   money(f.PaidAmount),
		Balance:      money(f.Balance()),
		DueDate:      f.DueDate,
		Status:       string(f.Status),
		IsOverdue:    f.IsOverdue(now),
		PaymentDate:  f.PaymentDate,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	if f.PaymentMethod != nil {
		m := string(*f.PaymentMethod)
		dto.PaymentMethod = &m
	}
	return dto
}

// ToFeeDTOs converts fee listings
func ToFeeDTOs(fees []finance.FeeDetail, now time.Time) []FeeDTO {
	out := make([]FeeDTO, len(fees))
	for i := range fees {
		out[i] = ToFeeDTO(&fees[i].Fee, now)
		ref := fees[i].Student
		out[i].Student = &ref
	}
	return out
}

func toPaymentDTO(p *finance.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		FeeID:         p.FeeID,
		Amount:        money(p.Amount),
		Method:        string(p.Method),
		TransactionID: p.TransactionID,
		Remarks:       p.Remarks,
		RecordedBy:    p.RecordedBy,
		CreatedAt:     p.CreatedAt,
	}
}

func toSummaryDTO(s finance.Summary) SummaryDTO {
	return SummaryDTO{
		TotalAmount:   money(s.TotalAmount),
		PaidAmount:    money(s.PaidAmount),
		PendingAmount: money(s.PendingAmount),
		OverdueAmount: money(s.OverdueAmount),
	}
}
