package academic

import (
	"github.com/google/uuid"
	appfinance "github.com/school/backend/internal/application/finance"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/shared"
)

// ListStudentsInput contains the student listing query
type ListStudentsInput struct {
	Search string
	Status string
	Sort   string
	Page   shared.Page
}

// StudentDetail is a student with enrollments, recent attendance and fees
type StudentDetail struct {
	academic.Student
	Enrollments       []academic.EnrollmentDetail `json:"enrollments"`
	RecentAttendance  []attendance.RecordDetail   `json:"recentAttendance"`
	AttendanceSummary attendance.Stats            `json:"attendanceSummary"`
	Fees              []appfinance.FeeDTO         `json:"fees"`
}

// CreateTeacherInput contains input for adding a teacher
type CreateTeacherInput struct {
	EmployeeID string
	academic.TeacherFields
}

// ListTeachersInput contains the teacher listing query
type ListTeachersInput struct {
	Search string
	Status string
	Sort   string
	Page   shared.Page
}

// ListClassesInput contains the class listing query
type ListClassesInput struct {
	Search       string
	AcademicYear string
	Status       string
	Sort         string
	Page         shared.Page
}

// ClassDTO is a class with its current enrollment count
type ClassDTO struct {
	academic.ClassSection
	EnrolledCount int64 `json:"enrolledCount"`
}

// ClassDetail is a class with its teacher and subjects
type ClassDetail struct {
	ClassDTO
	ClassTeacher *academic.Teacher `json:"classTeacher"`
	Subjects     []academic.Subject `json:"subjects"`
}

// ListSubjectsInput contains the subject listing query
type ListSubjectsInput struct {
	Search string
	Sort   string
	Page   shared.Page
}

// CreateSubjectInput contains input for adding a subject
type CreateSubjectInput struct {
	Name string
	Code string
}

// UpdateSubjectInput contains the editable subject fields
type UpdateSubjectInput struct {
	Name *string
	Code *string
}

// EnrollInput contains input for enrolling a student into a class
type EnrollInput struct {
	StudentID      uuid.UUID
	ClassSectionID uuid.UUID
	AcademicYear   string
}

// ListEnrollmentsInput contains the enrollment listing query
type ListEnrollmentsInput struct {
	StudentID      *uuid.UUID
	ClassSectionID *uuid.UUID
	AcademicYear   string
	Page           shared.Page
}

// recentAttendanceDays is how many attendance rows a student detail shows
const recentAttendanceDays = 30

// relatedLimit caps nested collections in detail views
const relatedLimit = shared.MaxLimit
