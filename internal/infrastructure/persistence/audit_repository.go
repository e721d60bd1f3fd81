package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/audit"
	"github.com/school/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts a log entry
func (r *GormAuditRepository) Append(ctx context.Context, l *audit.Log) error {
	model, err := models.AuditLogModelFromDomain(l)
	if err != nil {
		return err
	}
	return TranslateError(r.db.WithContext(ctx).Create(model).Error)
}

// FindByID finds a log entry with its actor
func (r *GormAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.LogDetail, error) {
	var model models.AuditLogModel
	if err := r.db.WithContext(ctx).Preload("Actor").First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, audit.ErrLogNotFound)
	}
	return model.ToDomain(), nil
}

// List returns log entries newest first
func (r *GormAuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.LogDetail, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}

	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLogModel
	if err := paginate(query, filter.Page).
		Preload("Actor").
		Order("created_at DESC").Order("id").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]audit.LogDetail, len(rows))
	for i := range rows {
		logs[i] = *rows[i].ToDomain()
	}
	return logs, total, nil
}
