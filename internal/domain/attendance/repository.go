package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/shared"
)

// RecordDetail is a record with the student and class identities
type RecordDetail struct {
	Record
	Student academic.StudentRef `json:"student"`
	Class   academic.ClassRef   `json:"classSection"`
}

// Filter narrows attendance listings. Date takes precedence over the
// From/To range; all dates are calendar days.
type Filter struct {
	ClassSectionID *uuid.UUID
	StudentID      *uuid.UUID
	Date           *time.Time
	From           *time.Time
	To             *time.Time
	Page           shared.Page
}

// Repository persists attendance records
type Repository interface {
	// Upsert inserts r or overwrites the existing record for the same
	// student and day, returning the stored row.
	Upsert(ctx context.Context, r *Record) (*RecordDetail, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Save(ctx context.Context, r *Record) error
	List(ctx context.Context, filter Filter) ([]RecordDetail, int64, error)
	// CountByStatus counts the records matching filter grouped by status
	CountByStatus(ctx context.Context, filter Filter) (map[Status]int64, error)
}
