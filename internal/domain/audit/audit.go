package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

// Action is the kind of change an audit entry records
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionLogin  Action = "LOGIN"
	ActionLogout Action = "LOGOUT"
)

// IsValid reports whether a is a known action
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout:
		return true
	}
	return false
}

// Entity names used in audit entries
const (
	EntityUser       = "User"
	EntityStudent    = "Student"
	EntityTeacher    = "Teacher"
	EntityClass      = "ClassSection"
	EntitySubject    = "Subject"
	EntityEnrollment = "Enrollment"
	EntityAttendance = "Attendance"
	EntityFee        = "Fee"
	EntityMark       = "Mark"
)

// ErrLogNotFound is returned for an unknown audit log id
var ErrLogNotFound = shared.NewDomainError("AUDIT_LOG_NOT_FOUND", "Audit log not found")

// Log is an append-only audit record. A nil ActorID means the system.
type Log struct {
	ID        uuid.UUID      `json:"id"`
	ActorID   *uuid.UUID     `json:"actorId"`
	Action    Action         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId"`
	Summary   string         `json:"summary"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Entry is what callers hand to the recorder
type Entry struct {
	ActorID  *uuid.UUID
	Action   Action
	Entity   string
	EntityID string
	Summary  string
	Metadata map[string]any
}

// NewLog stamps an entry with an id and creation time
func NewLog(e Entry) (*Log, error) {
	if !e.Action.IsValid() {
		return nil, shared.NewValidationError(shared.FieldError{Field: "action", Message: "Invalid audit action"})
	}
	if e.Entity == "" {
		return nil, shared.NewValidationError(shared.FieldError{Field: "entity", Message: "Entity is required"})
	}
	return &Log{
		ID:        uuid.New(),
		ActorID:   e.ActorID,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Summary:   e.Summary,
		Metadata:  e.Metadata,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Actor is the user who performed an audited action
type Actor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LogDetail is a log entry with its actor, nil for system actions
type LogDetail struct {
	Log
	Actor *Actor `json:"actor"`
}

// Filter narrows audit listings
type Filter struct {
	Entity  string
	Action  Action
	ActorID *uuid.UUID
	Page    shared.Page
}

// Repository stores audit logs. There is no update or delete.
type Repository interface {
	Append(ctx context.Context, l *Log) error
	FindByID(ctx context.Context, id uuid.UUID) (*LogDetail, error)
	// List orders newest first
	List(ctx context.Context, filter Filter) ([]LogDetail, int64, error)
}
