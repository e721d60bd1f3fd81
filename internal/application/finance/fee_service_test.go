package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/finance"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/persistence"
	"github.com/school/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type feeFixture struct {
	svc     *FeeService
	student *academic.Student
}

func newFeeFixture(t *testing.T) *feeFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	students := persistence.NewGormStudentRepository(db)

	student, err := academic.NewStudent(academic.StudentFields{
		StudentID: ptr("STU-100"),
		FirstName: ptr("Amina"),
		LastName:  ptr("Otieno"),
	})
	require.NoError(t, err)
	require.NoError(t, students.Create(context.Background(), student))

	recorder := appaudit.NewRecorder(persistence.NewGormAuditRepository(db), zap.NewNop())
	svc := NewFeeService(persistence.NewGormFeeRepository(db), students, recorder, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return &feeFixture{svc: svc, student: student}
}

func (f *feeFixture) createFee(t *testing.T, amount float64, due time.Time) *FeeDTO {
	t.Helper()
	fee, err := f.svc.Create(context.Background(), CreateFeeInput{
		StudentID:    f.student.ID,
		Amount:       amount,
		DueDate:      due,
		AcademicYear: "2024-2025",
	})
	require.NoError(t, err)
	return fee
}

func TestFeeService_Create(t *testing.T) {
	f := newFeeFixture(t)

	fee := f.createFee(t, 1500.50, fixedNow.AddDate(0, 1, 0))

	assert.Equal(t, "DUE", fee.Status)
	assert.Equal(t, 1500.50, fee.Amount)
	assert.Zero(t, fee.PaidAmount)
	assert.Equal(t, "TUITION", fee.Type)
	require.NotNil(t, fee.Student)
	assert.Equal(t, "STU-100", fee.Student.StudentID)
}

func TestFeeService_CreateValidation(t *testing.T) {
	f := newFeeFixture(t)

	_, err := f.svc.Create(context.Background(), CreateFeeInput{StudentID: uuid.New(), Amount: 10, DueDate: fixedNow})
	assert.ErrorIs(t, err, academic.ErrStudentNotFound)

	_, err = f.svc.Create(context.Background(), CreateFeeInput{StudentID: f.student.ID, Amount: 0, DueDate: fixedNow})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestFeeService_PartialThenFullPayment(t *testing.T) {
	f := newFeeFixture(t)
	fee := f.createFee(t, 1000, fixedNow.AddDate(0, 1, 0))
	ctx := context.Background()

	first, err := f.svc.RecordPayment(ctx, fee.ID, RecordPaymentInput{Amount: 400, PaymentMethod: "CASH", TransactionID: "R-1"})
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", first.Fee.Status)
	assert.Equal(t, 400.0, first.Fee.PaidAmount)
	assert.Equal(t, 600.0, first.Fee.Balance)
	assert.Equal(t, "R-1", first.Payment.TransactionID)

	_, err = f.svc.RecordPayment(ctx, fee.ID, RecordPaymentInput{Amount: 700, PaymentMethod: "CASH"})
	assert.ErrorIs(t, err, finance.ErrOverpayment)

	second, err := f.svc.RecordPayment(ctx, fee.ID, RecordPaymentInput{Amount: 600, PaymentMethod: "BANK_TRANSFER"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", second.Fee.Status)
	assert.Zero(t, second.Fee.Balance)

	_, err = f.svc.RecordPayment(ctx, fee.ID, RecordPaymentInput{Amount: 1, PaymentMethod: "CASH"})
	assert.ErrorIs(t, err, finance.ErrAlreadyPaid)

	detail, err := f.svc.Get(ctx, fee.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Payments, 2)
	require.NotNil(t, detail.Student)
}

func TestFeeService_PayInFullTwice(t *testing.T) {
	f := newFeeFixture(t)
	fee := f.createFee(t, 250, fixedNow.AddDate(0, 0, 7))

	paid, err := f.svc.PayInFull(context.Background(), fee.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)
	assert.Equal(t, 250.0, paid.PaidAmount)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, "CASH", *paid.PaymentMethod)

	_, err = f.svc.PayInFull(context.Background(), fee.ID, "")
	assert.ErrorIs(t, err, finance.ErrAlreadyPaid)
}

func TestFeeService_PaymentValidation(t *testing.T) {
	f := newFeeFixture(t)
	fee := f.createFee(t, 100, fixedNow)

	_, err := f.svc.RecordPayment(context.Background(), fee.ID, RecordPaymentInput{Amount: 10, PaymentMethod: "BITCOIN"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.svc.RecordPayment(context.Background(), uuid.New(), RecordPaymentInput{Amount: 10, PaymentMethod: "CASH"})
	assert.ErrorIs(t, err, finance.ErrFeeNotFound)
}

func TestFeeService_Summary(t *testing.T) {
	f := newFeeFixture(t)
	ctx := context.Background()

	overdue := f.createFee(t, 300, fixedNow.AddDate(0, 0, -10))
	f.createFee(t, 200, fixedNow.AddDate(0, 0, 10))
	paid := f.createFee(t, 100, fixedNow.AddDate(0, 0, -20))

	_, err := f.svc.RecordPayment(ctx, overdue.ID, RecordPaymentInput{Amount: 50, PaymentMethod: "CASH"})
	require.NoError(t, err)
	_, err = f.svc.PayInFull(ctx, paid.ID, "CARD")
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx, &f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, summary.TotalAmount)
	assert.Equal(t, 150.0, summary.PaidAmount)
	assert.Equal(t, 450.0, summary.PendingAmount)
	assert.Equal(t, 250.0, summary.OverdueAmount)

	all, err := f.svc.Summary(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, summary, all)
}

func TestFeeService_ListAndUpdate(t *testing.T) {
	f := newFeeFixture(t)
	ctx := context.Background()
	fee := f.createFee(t, 500, fixedNow.AddDate(0, 0, -1))
	f.createFee(t, 700, fixedNow.AddDate(0, 2, 0))

	page, err := f.svc.List(ctx, ListFeesInput{Status: "DUE", Page: shared.Page{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 700.0, page.Items[0].Amount, "latest due date first")
	assert.True(t, page.Items[1].IsOverdue)

	_, err = f.svc.List(ctx, ListFeesInput{Status: "OVERDUE"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.svc.RecordPayment(ctx, fee.ID, RecordPaymentInput{Amount: 200, PaymentMethod: "CASH"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, fee.ID, UpdateFeeInput{Amount: ptr(150.0)})
	assert.ErrorIs(t, err, shared.ErrValidation, "amount below paid")

	updated, err := f.svc.Update(ctx, fee.ID, UpdateFeeInput{Amount: ptr(200.0), Description: ptr("Term 2")})
	require.NoError(t, err)
	assert.Equal(t, "PAID", updated.Status)
	assert.Equal(t, "Term 2", updated.Description)

	byStudent, err := f.svc.ListByStudent(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	require.NoError(t, f.svc.Delete(ctx, fee.ID))
	_, err = f.svc.Get(ctx, fee.ID)
	assert.ErrorIs(t, err, finance.ErrFeeNotFound)
}
