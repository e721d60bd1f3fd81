package assessment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

const (
	MinMark = 0
	MaxMark = 100
)

// ErrMarkNotFound is returned for an unknown mark id
var ErrMarkNotFound = shared.NewDomainError("MARK_NOT_FOUND", "Mark not found")

// Mark is one student's score in one subject for one exam. The triple
// (StudentID, SubjectID, ExamName) is unique; re-submitting overwrites.
type Mark struct {
	shared.BaseEntity
	StudentID uuid.UUID `json:"studentId"`
	SubjectID uuid.UUID `json:"subjectId"`
	ExamName  string    `json:"examName"`
	Marks     float64   `json:"marks"`
	Remarks   string    `json:"remarks"`
}

// NewMark validates and creates a mark
func NewMark(studentID, subjectID uuid.UUID, examName string, marks float64, remarks string) (*Mark, error) {
	var errs []shared.FieldError
	examName = strings.TrimSpace(examName)
	if examName == "" {
		errs = append(errs, shared.FieldError{Field: "examName", Message: "Exam name is required"})
	}
	if marks < MinMark || marks > MaxMark {
		errs = append(errs, shared.FieldError{Field: "marks", Message: "Marks must be between 0 and 100"})
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError(errs...)
	}
	return &Mark{
		BaseEntity: shared.NewBaseEntity(),
		StudentID:  studentID,
		SubjectID:  subjectID,
		ExamName:   examName,
		Marks:      marks,
		Remarks:    strings.TrimSpace(remarks),
	}, nil
}

// Stats summarizes a student's marks
type Stats struct {
	TotalMarks   float64 `json:"totalMarks"`
	AverageMarks float64 `json:"averageMarks"`
	HighestMark  float64 `json:"highestMark"`
	LowestMark   float64 `json:"lowestMark"`
	SubjectCount int     `json:"subjectCount"`
}

// NewStats computes totals over marks; every field is zero when marks is empty
func NewStats(marks []Mark) Stats {
	if len(marks) == 0 {
		return Stats{}
	}
	subjects := make(map[uuid.UUID]struct{})
	s := Stats{HighestMark: marks[0].Marks, LowestMark: marks[0].Marks}
	for _, m := range marks {
		s.TotalMarks += m.Marks
		s.HighestMark = max(s.HighestMark, m.Marks)
		s.LowestMark = min(s.LowestMark, m.Marks)
		subjects[m.SubjectID] = struct{}{}
	}
	s.TotalMarks = shared.Round2(s.TotalMarks)
	s.AverageMarks = shared.Round2(s.TotalMarks / float64(len(marks)))
	s.SubjectCount = len(subjects)
	return s
}
