package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

type actorKey struct{}

// WithActor stores the authenticated user's id for audit entries
func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// ActorFromContext returns the authenticated user's id, or nil for system actions
func ActorFromContext(ctx context.Context) *uuid.UUID {
	if id, ok := ctx.Value(actorKey{}).(uuid.UUID); ok && id != uuid.Nil {
		return &id
	}
	return nil
}

// Recorder appends audit entries. Entries without an ActorID take the
// actor stored in the context.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record writes the entry and reports failures to the caller
func (r *Recorder) Record(ctx context.Context, e audit.Entry) error {
	if e.ActorID == nil {
		e.ActorID = ActorFromContext(ctx)
	}
	l, err := audit.NewLog(e)
	if err != nil {
		return err
	}
	if err := r.repo.Append(ctx, l); err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

// RecordBestEffort writes the entry and never fails the caller: errors and
// panics are logged at warn level and dropped.
func (r *Recorder) RecordBestEffort(ctx context.Context, e audit.Entry) {
	defer func() {
		if p := recover(); p != nil {
			r.warn(ctx, e, zap.Any("panic", p))
		}
	}()
	if err := r.Record(ctx, e); err != nil {
		r.warn(ctx, e, zap.Error(err))
	}
}

func (r *Recorder) warn(ctx context.Context, e audit.Entry, cause zap.Field) {
	fields := []zap.Field{
		zap.String("action", string(e.Action)),
		zap.String("entity", e.Entity),
		zap.String("entity_id", e.EntityID),
		cause,
	}
	if id := logger.GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	r.logger.Warn("Audit log write failed", fields...)
}
