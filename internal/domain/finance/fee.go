package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeStatus tracks how much of a fee has been paid. Overdue is derived
// from DueDate and never stored.
type FeeStatus string

const (
	FeeDue     FeeStatus = "DUE"
	FeePartial FeeStatus = "PARTIAL"
	FeePaid    FeeStatus = "PAID"
)

// IsValid reports whether s is a known fee status
func (s FeeStatus) IsValid() bool {
	return s == FeeDue || s == FeePartial || s == FeePaid
}

// PaymentMethod is how a payment was received
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodOnline       PaymentMethod = "ONLINE"
)

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodCheque, MethodOnline:
		return true
	}
	return false
}

// DefaultFeeType is used when a fee is created without a type
const DefaultFeeType = "TUITION"

var (
	ErrFeeNotFound = shared.NewDomainError("FEE_NOT_FOUND", "Fee not found")
	ErrAlreadyPaid = shared.NewDomainError("ALREADY_PAID", "Fee is already paid")
	ErrOverpayment = shared.NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding balance")
)

// Fee is an amount a student owes, paid in one or more payments
type Fee struct {
	shared.BaseEntity
	StudentID     uuid.UUID       `json:"studentId"`
	Type          string          `json:"type"`
	AcademicYear  string          `json:"academicYear"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	DueDate       time.Time       `json:"dueDate"`
	Status        FeeStatus       `json:"status"`
	PaymentDate   *time.Time      `json:"paymentDate"`
	PaymentMethod *PaymentMethod  `json:"paymentMethod"`
}

// FeeDetails carries the optional descriptive fields of a fee
type FeeDetails struct {
	Type         string
	AcademicYear string
	Description  string
}

// NewFee creates an unpaid fee
func NewFee(studentID uuid.UUID, amount decimal.Decimal, dueDate time.Time, d FeeDetails) (*Fee, error) {
	if !amount.IsPositive() {
		return nil, shared.NewValidationError(shared.FieldError{Field: "amount", Message: "Amount must be positive"})
	}
	if dueDate.IsZero() {
		return nil, shared.NewValidationError(shared.FieldError{Field: "dueDate", Message: "Due date is required"})
	}
	feeType := strings.ToUpper(strings.TrimSpace(d.Type))
	if feeType == "" {
		feeType = DefaultFeeType
	}
	return &Fee{
		BaseEntity:   shared.NewBaseEntity(),
		StudentID:    studentID,
		Type:         feeType,
		AcademicYear: strings.TrimSpace(d.AcademicYear),
		Description:  strings.TrimSpace(d.Description),
		Amount:       amount.Round(2),
		PaidAmount:   decimal.Zero,
		DueDate:      dueDate.UTC(),
		Status:       FeeDue,
	}, nil
}

// Balance is the amount still outstanding
func (f *Fee) Balance() decimal.Decimal {
	return f.Amount.Sub(f.PaidAmount)
}

// IsOverdue reports whether an unpaid balance is past its due date
func (f *Fee) IsOverdue(now time.Time) bool {
	return f.Status != FeePaid && f.DueDate.Before(startOfDay(now))
}

// ApplyPayment records amount against the fee. A PAID fee rejects any
// payment and amounts above the balance are rejected rather than clamped.
func (f *Fee) ApplyPayment(amount decimal.Decimal, method PaymentMethod, transactionID, remarks string, recordedBy *uuid.UUID, now time.Time) (*Payment, error) {
	if f.Status == FeePaid {
		return nil, ErrAlreadyPaid
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError(shared.FieldError{Field: "amountPaid", Message: "Amount must be positive"})
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError(shared.FieldError{Field: "paymentMethod", Message: "Invalid payment method"})
	}
	amount = amount.Round(2)
	if amount.GreaterThan(f.Balance()) {
		return nil, ErrOverpayment.WithDetails(map[string]string{"balance": f.Balance().StringFixed(2)})
	}

	now = now.UTC()
	f.PaidAmount = f.PaidAmount.Add(amount)
	f.Status = deriveStatus(f.Amount, f.PaidAmount)
	f.PaymentDate = &now
	f.PaymentMethod = &method
	f.Touch()

	return &Payment{
		ID:            uuid.New(),
		FeeID:         f.ID,
		Amount:        amount,
		Method:        method,
		TransactionID: strings.TrimSpace(transactionID),
		Remarks:       strings.TrimSpace(remarks),
		RecordedBy:    recordedBy,
		CreatedAt:     now,
	}, nil
}

// PayInFull pays the whole outstanding balance
func (f *Fee) PayInFull(method PaymentMethod, recordedBy *uuid.UUID, now time.Time) (*Payment, error) {
	if f.Status == FeePaid {
		return nil, ErrAlreadyPaid
	}
	return f.ApplyPayment(f.Balance(), method, "", "", recordedBy, now)
}

// FeeChanges carries the editable fields of a fee
type FeeChanges struct {
	Amount      *decimal.Decimal
	DueDate     *time.Time
	Description *string
	Type        *string
}

// Update edits the fee. The amount may not drop below what has been paid;
// status is re-derived afterwards.
func (f *Fee) Update(c FeeChanges) error {
	if c.Amount != nil {
		if !c.Amount.IsPositive() {
			return shared.NewValidationError(shared.FieldError{Field: "amount", Message: "Amount must be positive"})
		}
		if c.Amount.LessThan(f.PaidAmount) {
			return shared.NewValidationError(shared.FieldError{Field: "amount", Message: "Amount cannot be less than the amount already paid"})
		}
		f.Amount = c.Amount.Round(2)
		f.Status = deriveStatus(f.Amount, f.PaidAmount)
	}
	if c.DueDate != nil {
		f.DueDate = c.DueDate.UTC()
	}
	if c.Description != nil {
		f.Description = strings.TrimSpace(*c.Description)
	}
	if c.Type != nil && strings.TrimSpace(*c.Type) != "" {
		f.Type = strings.ToUpper(strings.TrimSpace(*c.Type))
	}
	f.Touch()
	return nil
}

func deriveStatus(amount, paid decimal.Decimal) FeeStatus {
	switch {
	case paid.IsZero():
		return FeeDue
	case paid.LessThan(amount):
		return FeePartial
	default:
		return FeePaid
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Payment is one append-only payment against a fee
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	FeeID         uuid.UUID       `json:"feeId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	TransactionID string          `json:"transactionId"`
	Remarks       string          `json:"remarks"`
	RecordedBy    *uuid.UUID      `json:"recordedBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Summary totals a set of fees
type Summary struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	OverdueAmount decimal.Decimal `json:"overdueAmount"`
}
