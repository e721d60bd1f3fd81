package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/finance"
	"github.com/school/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// studentFeesLimit caps the fees returned for a single student
const studentFeesLimit = shared.MaxLimit

// FeeService manages fees and their payments
type FeeService struct {
	fees     finance.FeeRepository
	students academic.StudentRepository
	audit    *appaudit.Recorder
	logger   *zap.Logger
	metrics  PaymentMetrics
	now      func() time.Time
}

// PaymentMetrics receives recorded payments
type PaymentMetrics interface {
	RecordFeePayment(ctx context.Context, method string, amount decimal.Decimal)
}

// NewFeeService creates a new fee service
func NewFeeService(
	fees finance.FeeRepository,
	students academic.StudentRepository,
	recorder *appaudit.Recorder,
	logger *zap.Logger,
) *FeeService {
	return &FeeService{
		fees:     fees,
		students: students,
		audit:    recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// SetMetrics reports every recorded payment to m
func (s *FeeService) SetMetrics(m PaymentMetrics) {
	s.metrics = m
}

// Create raises a new DUE fee for a student
func (s *FeeService) Create(ctx context.Context, input CreateFeeInput) (*FeeDTO, error) {
	student, err := s.students.FindByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	fee, err := finance.NewFee(student.ID, decimal.NewFromFloat(input.Amount), input.DueDate, finance.FeeDetails{
		Type:         input.Type,
		AcademicYear: input.AcademicYear,
		Description:  input.Description,
	})
	if err != nil {
		return nil, err
	}
	if err := s.fees.Create(ctx, fee); err != nil {
		return nil, err
	}

	s.logger.Info("Fee created",
		zap.String("fee_id", fee.ID.String()),
		zap.String("student_id", student.ID.String()),
		zap.String("amount", fee.Amount.StringFixed(2)))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntityFee,
		EntityID: fee.ID.String(),
		Summary:  fmt.Sprintf("Created %s fee of %s for %s", fee.Type, fee.Amount.StringFixed(2), student.FullName()),
	})

	dto := ToFeeDTO(fee, s.now())
	ref := studentRef(student)
	dto.Student = &ref
	return &dto, nil
}

// RecordPayment applies a partial or full payment. Paying a PAID fee fails
// with ALREADY_PAID and amounts above the balance fail with OVERPAYMENT.
func (s *FeeService) RecordPayment(ctx context.Context, feeID uuid.UUID, input RecordPaymentInput) (*PaymentResult, error) {
	recordedBy := appaudit.ActorFromContext(ctx)
	now := s.now()

	fee, payment, err := s.fees.RecordPayment(ctx, feeID, func(f *finance.Fee) (*finance.Payment, error) {
		return f.ApplyPayment(
			decimal.NewFromFloat(input.Amount),
			finance.PaymentMethod(input.PaymentMethod),
			input.TransactionID,
			input.Remarks,
			recordedBy,
			now,
		)
	})
	if err != nil {
		return nil, err
	}

	s.logPayment(ctx, fee, payment)
	return &PaymentResult{Fee: ToFeeDTO(fee, now), Payment: toPaymentDTO(payment)}, nil
}

// PayInFull settles the whole outstanding balance. A second call on the
// same fee fails with ALREADY_PAID.
func (s *FeeService) PayInFull(ctx context.Context, feeID uuid.UUID, method string) (*FeeDTO, error) {
	if method == "" {
		method = string(finance.MethodCash)
	}
	recordedBy := appaudit.ActorFromContext(ctx)
	now := s.now()

	fee, payment, err := s.fees.RecordPayment(ctx, feeID, func(f *finance.Fee) (*finance.Payment, error) {
		return f.PayInFull(finance.PaymentMethod(method), recordedBy, now)
	})
	if err != nil {
		return nil, err
	}

	s.logPayment(ctx, fee, payment)
	dto := ToFeeDTO(fee, now)
	return &dto, nil
}

func (s *FeeService) logPayment(ctx context.Context, fee *finance.Fee, payment *finance.Payment) {
	if s.metrics != nil {
		s.metrics.RecordFeePayment(ctx, string(payment.Method), payment.Amount)
	}
	s.logger.Info("Fee payment recorded",
		zap.String("fee_id", fee.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("status", string(fee.Status)))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityFee,
		EntityID: fee.ID.String(),
		Summary:  fmt.Sprintf("Recorded %s payment of %s (%s)", payment.Method, payment.Amount.StringFixed(2), fee.Status),
		Metadata: map[string]any{
			"paymentId":  payment.ID.String(),
			"paidAmount": fee.PaidAmount.StringFixed(2),
			"status":     string(fee.Status),
		},
	})
}

// List returns fees by due date, latest first
func (s *FeeService) List(ctx context.Context, input ListFeesInput) (shared.Paginated[FeeDTO], error) {
	filter := finance.FeeFilter{
		StudentID:    input.StudentID,
		Type:         input.Type,
		AcademicYear: input.AcademicYear,
		Page:         input.Page,
	}
	if input.Status != "" {
		status := finance.FeeStatus(input.Status)
		if !status.IsValid() {
			return shared.Paginated[FeeDTO]{}, shared.NewValidationError(
				shared.FieldError{Field: "status", Message: "Status must be DUE, PARTIAL or PAID"})
		}
		filter.Status = status
	}

	fees, total, err := s.fees.List(ctx, filter)
	if err != nil {
		return shared.Paginated[FeeDTO]{}, err
	}
	return shared.NewPaginated(ToFeeDTOs(fees, s.now()), total, input.Page), nil
}

// ListByStudent returns every fee of one student
func (s *FeeService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]FeeDTO, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	fees, _, err := s.fees.List(ctx, finance.FeeFilter{
		StudentID: &studentID,
		Page:      shared.Page{Page: 1, Limit: studentFeesLimit},
	})
	if err != nil {
		return nil, err
	}
	return ToFeeDTOs(fees, s.now()), nil
}

// Get returns a fee with its student and payment history
func (s *FeeService) Get(ctx context.Context, id uuid.UUID) (*FeeDTO, error) {
	fee, err := s.fees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.fees.Payments(ctx, id)
	if err != nil {
		return nil, err
	}
	refs, err := s.students.FindRefs(ctx, []uuid.UUID{fee.StudentID})
	if err != nil {
		return nil, err
	}

	dto := ToFeeDTO(fee, s.now())
	if ref, ok := refs[fee.StudentID]; ok {
		dto.Student = &ref
	}
	dto.Payments = make([]PaymentDTO, len(payments))
	for i := range payments {
		dto.Payments[i] = toPaymentDTO(&payments[i])
	}
	return &dto, nil
}

// Summary totals fees, optionally for a single student
func (s *FeeService) Summary(ctx context.Context, studentID *uuid.UUID) (*SummaryDTO, error) {
	if studentID != nil {
		if _, err := s.students.FindByID(ctx, *studentID); err != nil {
			return nil, err
		}
	}
	summary, err := s.fees.Summarize(ctx, studentID, s.now())
	if err != nil {
		return nil, err
	}
	dto := toSummaryDTO(summary)
	return &dto, nil
}

// Update edits amount, due date, description and type
func (s *FeeService) Update(ctx context.Context, id uuid.UUID, input UpdateFeeInput) (*FeeDTO, error) {
	fee, err := s.fees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := finance.FeeChanges{
		DueDate:     input.DueDate,
		Description: input.Description,
		Type:        input.Type,
	}
	if input.Amount != nil {
		amount := decimal.NewFromFloat(*input.Amount)
		changes.Amount = &amount
	}
	if err := fee.Update(changes); err != nil {
		return nil, err
	}
	if err := s.fees.Save(ctx, fee); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityFee,
		EntityID: fee.ID.String(),
		Summary:  fmt.Sprintf("Updated %s fee (%s)", fee.Type, fee.Amount.StringFixed(2)),
	})

	dto := ToFeeDTO(fee, s.now())
	return &dto, nil
}

// Delete removes a fee and its payments
func (s *FeeService) Delete(ctx context.Context, id uuid.UUID) error {
	fee, err := s.fees.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.fees.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Fee deleted", zap.String("fee_id", id.String()))
	s.audit.RecordBestEffort(ctx, audit.Entry{
		Action:   audit.ActionDelete,
		Entity:   audit.EntityFee,
		EntityID: id.String(),
		Summary:  fmt.Sprintf("Deleted %s fee of %s", fee.Type, fee.Amount.StringFixed(2)),
	})
	return nil
}

func studentRef(s *academic.Student) academic.StudentRef {
	return academic.StudentRef{
		ID:        s.ID,
		StudentID: s.StudentID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}
