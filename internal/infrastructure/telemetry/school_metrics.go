package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Outcome labels
const (
	OutcomeSaved   = "saved"
	OutcomeFailed  = "failed"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// OutstandingFeesProvider reports the count and balance of unpaid fees
type OutstandingFeesProvider interface {
	OutstandingFees(ctx context.Context) (int64, decimal.Decimal, error)
}

// SchoolMetrics counts attendance writes, fee payments and logins, and
// periodically samples the outstanding fee balance.
type SchoolMetrics struct {
	logger *zap.Logger

	attendanceRecords *Counter
	feePayments       *Counter
	feePaymentCents   *Counter
	logins            *Counter

	feesDueCount *Gauge
	feesDueCents *Gauge

	fees     OutstandingFeesProvider
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSchoolMetrics creates the instruments on meter. fees may be nil, in
// which case no gauges are sampled.
func NewSchoolMetrics(meter metric.Meter, fees OutstandingFeesProvider, logger *zap.Logger) (*SchoolMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &SchoolMetrics{logger: logger, fees: fees, stopCh: make(chan struct{})}
	var err error
	if m.attendanceRecords, err = NewCounter(meter, "sms_attendance_records_total",
		"Attendance records written by bulk marking", "{record}"); err != nil {
		return nil, err
	}
	if m.feePayments, err = NewCounter(meter, "sms_fee_payments_total",
		"Fee payments recorded", "{payment}"); err != nil {
		return nil, err
	}
	if m.feePaymentCents, err = NewCounter(meter, "sms_fee_payment_amount_total",
		"Fee payment amount in cents", "{cent}"); err != nil {
		return nil, err
	}
	if m.logins, err = NewCounter(meter, "sms_logins_total",
		"Login attempts", "{attempt}"); err != nil {
		return nil, err
	}
	if m.feesDueCount, err = NewGauge(meter, "sms_fees_due_count",
		"Fees not fully paid", "{fee}"); err != nil {
		return nil, err
	}
	if m.feesDueCents, err = NewGauge(meter, "sms_fees_due_amount",
		"Outstanding fee balance in cents", "{cent}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordAttendanceMarked counts the outcome of one bulk marking request
func (m *SchoolMetrics) RecordAttendanceMarked(ctx context.Context, saved, failed int) {
	if saved > 0 {
		m.attendanceRecords.Add(ctx, int64(saved), AttrOutcome.String(OutcomeSaved))
	}
	if failed > 0 {
		m.attendanceRecords.Add(ctx, int64(failed), AttrOutcome.String(OutcomeFailed))
	}
}

// RecordFeePayment counts a payment and its amount
func (m *SchoolMetrics) RecordFeePayment(ctx context.Context, method string, amount decimal.Decimal) {
	m.feePayments.Inc(ctx, AttrPaymentMethod.String(method))
	m.feePaymentCents.Add(ctx, toCents(amount), AttrPaymentMethod.String(method))
}

// RecordLogin counts a login attempt
func (m *SchoolMetrics) RecordLogin(ctx context.Context, success bool) {
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	m.logins.Inc(ctx, AttrOutcome.String(outcome))
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// StartCollection samples the outstanding fee gauges every interval until
// Stop is called or ctx ends.
func (m *SchoolMetrics) StartCollection(ctx context.Context, interval time.Duration) {
	if m.fees == nil {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.collect(ctx)
		for {
			select {
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.collect(ctx)
			}
		}
	}()
}

func (m *SchoolMetrics) collect(ctx context.Context) {
	count, balance, err := m.fees.OutstandingFees(ctx)
	if err != nil {
		m.logger.Warn("Failed to sample outstanding fees", zap.Error(err))
		return
	}
	m.feesDueCount.Record(ctx, count)
	m.feesDueCents.Record(ctx, toCents(balance))
}

// Stop ends periodic collection; safe to call more than once
func (m *SchoolMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}
