package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/shared"
)

// FeeDetail is a fee with its student identity
type FeeDetail struct {
	Fee
	Student academic.StudentRef `json:"student"`
}

// FeeFilter narrows fee listings
type FeeFilter struct {
	StudentID    *uuid.UUID
	Status       FeeStatus
	Type         string
	AcademicYear string
	Page         shared.Page
}

// PaymentFunc mutates a locked fee and returns the payment to append
type PaymentFunc func(f *Fee) (*Payment, error)

// FeeRepository persists fees and their payments
type FeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Fee, error)
	Payments(ctx context.Context, feeID uuid.UUID) ([]Payment, error)
	List(ctx context.Context, filter FeeFilter) ([]FeeDetail, int64, error)
	Create(ctx context.Context, f *Fee) error
	Save(ctx context.Context, f *Fee) error
	Delete(ctx context.Context, id uuid.UUID) error
	// RecordPayment locks the fee row, applies fn and persists the fee and
	// the returned payment in one transaction.
	RecordPayment(ctx context.Context, feeID uuid.UUID, fn PaymentFunc) (*Fee, *Payment, error)
	// Summarize totals fees, optionally for one student. Fees due before
	// today with an outstanding balance count as overdue.
	Summarize(ctx context.Context, studentID *uuid.UUID, today time.Time) (Summary, error)
}
