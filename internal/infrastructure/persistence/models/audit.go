package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/audit"
	"gorm.io/datatypes"
)

// AuditLogModel is an append-only audit row
type AuditLogModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ActorID   *uuid.UUID     `gorm:"type:uuid;index"`
	Action    audit.Action   `gorm:"type:varchar(10);not null;index"`
	Entity    string         `gorm:"type:varchar(50);not null;index"`
	EntityID  string         `gorm:"type:varchar(100)"`
	Summary   string         `gorm:"type:text"`
	Metadata  datatypes.JSON
	CreatedAt time.Time      `gorm:"not null;index"`
	Actor     *UserModel     `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain LogDetail.
// Unreadable metadata is dropped rather than failing the read.
func (m *AuditLogModel) ToDomain() *audit.LogDetail {
	d := &audit.LogDetail{
		Log: audit.Log{
			ID:        m.ID,
			ActorID:   m.ActorID,
			Action:    m.Action,
			Entity:    m.Entity,
			EntityID:  m.EntityID,
			Summary:   m.Summary,
			CreatedAt: m.CreatedAt,
		},
	}
	if len(m.Metadata) > 0 {
		var meta map[string]any
		if err := json.Unmarshal(m.Metadata, &meta); err == nil {
			d.Metadata = meta
		}
	}
	if m.Actor != nil {
		d.Actor = &audit.Actor{ID: m.Actor.ID, Name: m.Actor.Name, Email: m.Actor.Email}
	}
	return d
}

// AuditLogModelFromDomain creates a new persistence model from a domain Log
func AuditLogModelFromDomain(l *audit.Log) (*AuditLogModel, error) {
	m := &AuditLogModel{
		ID:        l.ID,
		ActorID:   l.ActorID,
		Action:    l.Action,
		Entity:    l.Entity,
		EntityID:  l.EntityID,
		Summary:   l.Summary,
		CreatedAt: l.CreatedAt,
	}
	if len(l.Metadata) > 0 {
		raw, err := json.Marshal(l.Metadata)
		if err != nil {
			return nil, err
		}
		m.Metadata = datatypes.JSON(raw)
	}
	return m, nil
}
