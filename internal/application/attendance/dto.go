package attendance

import (
	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/shared"
)

// MarkEntryInput is one student's line in a bulk marking request
type MarkEntryInput struct {
	StudentID uuid.UUID
	Status    string
	Remarks   string
}

// MarkBulkInput marks attendance for a class on one day
type MarkBulkInput struct {
	ClassSectionID uuid.UUID
	Date           string
	Records        []MarkEntryInput
}

// Failure describes a record that could not be saved
type Failure struct {
	StudentID uuid.UUID `json:"studentId"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
}

// BulkResult reports the outcome of a bulk marking request. Records are
// saved independently, so some may fail while others succeed.
type BulkResult struct {
	Date           string                    `json:"date"`
	ClassSectionID uuid.UUID                 `json:"classSectionId"`
	ClassName      string                    `json:"className"`
	RecordCount    int                       `json:"recordCount"`
	FailedCount    int                       `json:"failedCount"`
	Records        []attendance.RecordDetail `json:"records"`
	Failures       []Failure                 `json:"failures"`
}

// UpdateInput changes a single record
type UpdateInput struct {
	Status  string
	Remarks *string
}

// ListInput contains the attendance listing query. Date wins over the
// StartDate/EndDate range.
type ListInput struct {
	ClassSectionID *uuid.UUID
	StudentID      *uuid.UUID
	Date           string
	StartDate      string
	EndDate        string
	Page           shared.Page
}

// RosterEntry is one enrolled student and their mark for the day, if any
type RosterEntry struct {
	Student  academic.StudentRef `json:"student"`
	RecordID *uuid.UUID          `json:"recordId"`
	Status   *attendance.Status  `json:"status"`
	Remarks  string              `json:"remarks"`
}

// ClassRoster is a class's attendance sheet for a day
type ClassRoster struct {
	Date         string            `json:"date"`
	ClassSection academic.ClassRef `json:"classSection"`
	Marked       int               `json:"marked"`
	Summary      attendance.Stats  `json:"summary"`
	Students     []RosterEntry     `json:"students"`
}

// History is a student's paginated attendance with overall stats
type History struct {
	shared.Paginated[attendance.RecordDetail]
	Summary attendance.Stats `json:"summary"`
}
