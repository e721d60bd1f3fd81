package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, l *audit.Log) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.LogDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.LogDetail), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.LogDetail, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]audit.LogDetail), args.Get(1).(int64), args.Error(2)
}

type panickingRepository struct {
	MockAuditRepository
}

func (p *panickingRepository) Append(context.Context, *audit.Log) error {
	panic("connection reset")
}

func TestRecorder_RecordUsesContextActor(t *testing.T) {
	repo := new(MockAuditRepository)
	actor := uuid.New()
	ctx := WithActor(context.Background(), actor)

	repo.On("Append", ctx, mock.MatchedBy(func(l *audit.Log) bool {
		return l.ActorID != nil && *l.ActorID == actor && l.Action == audit.ActionCreate
	})).Return(nil)

	err := NewRecorder(repo, zap.NewNop()).Record(ctx, audit.Entry{
		Action:   audit.ActionCreate,
		Entity:   audit.EntityStudent,
		EntityID: "s-1",
		Summary:  "Created student",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecorder_RecordWithoutActorIsSystem(t *testing.T) {
	repo := new(MockAuditRepository)
	repo.On("Append", mock.Anything, mock.MatchedBy(func(l *audit.Log) bool {
		return l.ActorID == nil
	})).Return(nil)

	err := NewRecorder(repo, zap.NewNop()).Record(context.Background(), audit.Entry{
		Action: audit.ActionUpdate,
		Entity: audit.EntityFee,
	})
	require.NoError(t, err)
}

func TestRecorder_RecordReturnsErrors(t *testing.T) {
	repo := new(MockAuditRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := NewRecorder(repo, zap.NewNop()).Record(context.Background(), audit.Entry{
		Action: audit.ActionDelete,
		Entity: audit.EntityMark,
	})
	assert.ErrorContains(t, err, "disk full")

	err = NewRecorder(repo, zap.NewNop()).Record(context.Background(), audit.Entry{Action: "PURGE", Entity: audit.EntityMark})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRecorder_RecordBestEffortSwallowsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := new(MockAuditRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	rec := NewRecorder(repo, zap.New(core))
	assert.NotPanics(t, func() {
		rec.RecordBestEffort(context.Background(), audit.Entry{
			Action:   audit.ActionCreate,
			Entity:   audit.EntityAttendance,
			EntityID: "class-1",
		})
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Audit log write failed", entry.Message)
	assert.Equal(t, "Attendance", entry.ContextMap()["entity"])
	assert.Contains(t, entry.ContextMap()["error"], "db down")
}

func TestRecorder_RecordBestEffortRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := NewRecorder(&panickingRepository{}, zap.New(core))

	assert.NotPanics(t, func() {
		rec.RecordBestEffort(context.Background(), audit.Entry{Action: audit.ActionLogin, Entity: audit.EntityUser})
	})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "connection reset", logs.All()[0].ContextMap()["panic"])
}

func TestService_List(t *testing.T) {
	repo := new(MockAuditRepository)
	page := shared.Page{Page: 2, Limit: 5}
	actor := uuid.New()
	repo.On("List", mock.Anything, audit.Filter{
		Entity:  audit.EntityStudent,
		Action:  audit.ActionDelete,
		ActorID: &actor,
		Page:    page,
	}).Return([]audit.LogDetail{{}}, int64(6), nil)

	result, err := NewService(repo).List(context.Background(), ListInput{
		Entity:  audit.EntityStudent,
		Action:  "DELETE",
		ActorID: &actor,
		Page:    page,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(6), result.Total)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Items, 1)
}

func TestService_ListRejectsUnknownAction(t *testing.T) {
	_, err := NewService(new(MockAuditRepository)).List(context.Background(), ListInput{Action: "PURGE"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
