package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func TestDetectOperation(t *testing.T) {
	tests := map[string]string{
		"select 1":                        "SELECT",
		"  INSERT INTO t VALUES (1)":      "INSERT",
		"UPDATE t SET a = 1":              "UPDATE",
		"delete from t":                   "DELETE",
		"WITH x AS (SELECT 1) SELECT * x": "SELECT",
		"VACUUM":                          "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperation(sql), sql)
	}
}

func TestRegisterDBMetrics_DisabledProvider(t *testing.T) {
	db := openSQLite(t)
	m, err := RegisterDBMetrics(db, &MeterProvider{logger: zap.NewNop()}, DBMetricsConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRegisterDBMetrics_RecordsQueries(t *testing.T) {
	db := openSQLite(t)
	mp, reader := newTestMeterProvider(t)

	m, err := RegisterDBMetrics(db, mp, DBMetricsConfig{PoolStatsInterval: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&widget{Name: "a"}).Error)
	var got []widget
	require.NoError(t, db.WithContext(ctx).Find(&got).Error)
	require.NoError(t, db.WithContext(ctx).Model(&widget{}).Where("id = ?", got[0].ID).Update("name", "b").Error)

	m.Start(ctx)
	m.Stop()

	metrics := collect(t, reader)
	byOp := sumByAttr(t, metrics["db_query_total"], AttrDBOperation)
	assert.Equal(t, int64(1), byOp["INSERT"])
	assert.GreaterOrEqual(t, byOp["SELECT"], int64(1))
	assert.Equal(t, int64(1), byOp["UPDATE"])
	assert.Contains(t, metrics, "db_pool_connections_max")
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
}
