package attendance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

// Status of a student on a given day
type Status string

const (
	StatusPresent Status = "P"
	StatusAbsent  Status = "A"
	StatusLate    Status = "L"
)

// ParseStatus accepts the short codes and their long forms in any case
func ParseStatus(raw string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "P", "PRESENT":
		return StatusPresent, nil
	case "A", "ABSENT":
		return StatusAbsent, nil
	case "L", "LATE":
		return StatusLate, nil
	}
	return "", ErrInvalidStatus
}

// DateLayout is the calendar-day format used on the wire
const DateLayout = "2006-01-02"

var (
	ErrInvalidStatus = shared.NewDomainError("VALIDATION_ERROR", "Status must be P (Present), A (Absent), or L (Late)")
	ErrInvalidDate   = shared.NewDomainError("VALIDATION_ERROR", "Date must be YYYY-MM-DD")
	ErrNotFound      = shared.NewDomainError("ATTENDANCE_NOT_FOUND", "Attendance record not found")
)

// ParseDate reads YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar day at UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Day(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

// Day truncates t to midnight UTC of its UTC calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Record is the attendance of one student on one calendar day. At most one
// record exists per (StudentID, Date).
type Record struct {
	shared.BaseEntity
	StudentID      uuid.UUID `json:"studentId"`
	ClassSectionID uuid.UUID `json:"classSectionId"`
	Date           time.Time `json:"date"`
	Status         Status    `json:"status"`
	Remarks        string    `json:"remarks"`
}

// NewRecord creates a record for the calendar day of date
func NewRecord(studentID, classSectionID uuid.UUID, date time.Time, status Status, remarks string) *Record {
	return &Record{
		BaseEntity:     shared.NewBaseEntity(),
		StudentID:      studentID,
		ClassSectionID: classSectionID,
		Date:           Day(date),
		Status:         status,
		Remarks:        strings.TrimSpace(remarks),
	}
}

// Update overwrites status and remarks
func (r *Record) Update(status Status, remarks *string) {
	r.Status = status
	if remarks != nil {
		r.Remarks = strings.TrimSpace(*remarks)
	}
	r.Touch()
}

// Entry is one line of a bulk marking request
type Entry struct {
	StudentID uuid.UUID
	Status    Status
	Remarks   string
}

// Dedupe keeps one entry per student. The last entry for a student wins
// and takes the position of that student's first appearance.
func Dedupe(entries []Entry) []Entry {
	index := make(map[uuid.UUID]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.StudentID]; ok {
			out[i] = e
			continue
		}
		index[e.StudentID] = len(out)
		out = append(out, e)
	}
	return out
}

// Stats summarizes a set of attendance records. Late counts as attended.
type Stats struct {
	Total          int64   `json:"total"`
	Present        int64   `json:"present"`
	Absent         int64   `json:"absent"`
	Late           int64   `json:"late"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// NewStats builds Stats from per-status counts.
// AttendanceRate is (present+late)/total*100 with two decimals, 0 when empty.
func NewStats(counts map[Status]int64) Stats {
	s := Stats{
		Present: counts[StatusPresent],
		Absent:  counts[StatusAbsent],
		Late:    counts[StatusLate],
	}
	s.Total = s.Present + s.Absent + s.Late
	s.AttendanceRate = shared.Percentage(s.Present+s.Late, s.Total)
	return s
}
