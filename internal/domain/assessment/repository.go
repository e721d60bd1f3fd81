package assessment

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
)

// SubjectRef is the minimal subject identity embedded in mark views
type SubjectRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// MarkDetail is a mark with its student and subject identities
type MarkDetail struct {
	Mark
	Student academic.StudentRef `json:"student"`
	Subject SubjectRef          `json:"subject"`
}

// Filter selects marks. Exactly one of the ids is normally set.
type Filter struct {
	StudentID      *uuid.UUID
	SubjectID      *uuid.UUID
	ClassSectionID *uuid.UUID
	ExamName       string
}

// Repository persists marks
type Repository interface {
	// Upsert inserts or overwrites the marks keyed on (student, subject,
	// exam) in one transaction and returns the stored rows.
	Upsert(ctx context.Context, marks []*Mark) ([]MarkDetail, error)
	// List orders by subject name then exam name
	List(ctx context.Context, filter Filter) ([]MarkDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
