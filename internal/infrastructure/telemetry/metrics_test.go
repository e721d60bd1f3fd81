package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestMeterProvider(t *testing.T) (*MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return &MeterProvider{provider: provider, logger: zap.NewNop()}, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewSchoolMetrics_NilMeter(t *testing.T) {
	_, err := NewSchoolMetrics(nil, nil, nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestSchoolMetrics_Counters(t *testing.T) {
	mp, reader := newTestMeterProvider(t)
	m, err := NewSchoolMetrics(mp.Meter("school"), nil, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordAttendanceMarked(ctx, 28, 2)
	m.RecordAttendanceMarked(ctx, 30, 0)
	m.RecordFeePayment(ctx, "CASH", decimal.RequireFromString("150.25"))
	m.RecordFeePayment(ctx, "CARD", decimal.RequireFromString("99.995"))
	m.RecordLogin(ctx, true)
	m.RecordLogin(ctx, false)
	m.RecordLogin(ctx, false)

	metrics := collect(t, reader)
	assert.Equal(t, map[string]int64{OutcomeSaved: 58, OutcomeFailed: 2},
		sumByAttr(t, metrics["sms_attendance_records_total"], AttrOutcome))
	assert.Equal(t, map[string]int64{"CASH": 15025, "CARD": 10000},
		sumByAttr(t, metrics["sms_fee_payment_amount_total"], AttrPaymentMethod))
	assert.Equal(t, map[string]int64{OutcomeSuccess: 1, OutcomeFailure: 2},
		sumByAttr(t, metrics["sms_logins_total"], AttrOutcome))
}

type stubFees struct {
	count   int64
	balance decimal.Decimal
	err     error
}

func (s stubFees) OutstandingFees(context.Context) (int64, decimal.Decimal, error) {
	return s.count, s.balance, s.err
}

func TestSchoolMetrics_Collection(t *testing.T) {
	mp, reader := newTestMeterProvider(t)
	m, err := NewSchoolMetrics(mp.Meter("school"), stubFees{count: 4, balance: decimal.RequireFromString("1200.50")}, zap.NewNop())
	require.NoError(t, err)

	m.StartCollection(context.Background(), time.Hour)
	require.Eventually(t, func() bool {
		_, ok := collect(t, reader)["sms_fees_due_amount"]
		return ok
	}, time.Second, 10*time.Millisecond)
	m.Stop()
	m.Stop()

	gauge, ok := collect(t, reader)["sms_fees_due_amount"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(120050), gauge.DataPoints[0].Value)
}

func TestSchoolMetrics_CollectionErrorIsLogged(t *testing.T) {
	mp, reader := newTestMeterProvider(t)
	m, err := NewSchoolMetrics(mp.Meter("school"), stubFees{err: errors.New("db down")}, zap.NewNop())
	require.NoError(t, err)

	m.collect(context.Background())
	_, ok := collect(t, reader)["sms_fees_due_amount"]
	assert.False(t, ok)
}
