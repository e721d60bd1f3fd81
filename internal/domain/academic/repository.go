package academic

import (
	"context"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

// StudentRef is the minimal student identity embedded in other views
type StudentRef struct {
	ID        uuid.UUID `json:"id"`
	StudentID string    `json:"studentId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// ClassRef is the minimal class identity embedded in other views
type ClassRef struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Section      string    `json:"section"`
	AcademicYear string    `json:"academicYear"`
}

// StudentFilter narrows student listings. Search matches names, student
// id and email case-insensitively.
type StudentFilter struct {
	Search         string
	Status         StudentStatus
	ClassSectionID *uuid.UUID
	Sort           shared.Sort
	Page           shared.Page
}

// StudentRepository persists students
type StudentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)
	FindRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]StudentRef, error)
	List(ctx context.Context, filter StudentFilter) ([]Student, int64, error)
	Create(ctx context.Context, s *Student) error
	Save(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeacherFilter narrows teacher listings
type TeacherFilter struct {
	Search string
	Status TeacherStatus
	Sort   shared.Sort
	Page   shared.Page
}

// TeacherRepository persists teachers
type TeacherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Teacher, error)
	List(ctx context.Context, filter TeacherFilter) ([]Teacher, int64, error)
	Create(ctx context.Context, t *Teacher) error
	Save(ctx context.Context, t *Teacher) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClassFilter narrows class listings
type ClassFilter struct {
	Search       string
	AcademicYear string
	Status       ClassStatus
	Sort         shared.Sort
	Page         shared.Page
}

// ClassRepository persists class sections and their subject assignments
type ClassRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ClassSection, error)
	List(ctx context.Context, filter ClassFilter) ([]ClassSection, int64, error)
	Create(ctx context.Context, c *ClassSection) error
	Save(ctx context.Context, c *ClassSection) error
	Delete(ctx context.Context, id uuid.UUID) error
	// EnrolledCounts returns the number of enrollments per class id
	EnrolledCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	Subjects(ctx context.Context, classID uuid.UUID) ([]Subject, error)
	// ReplaceSubjects swaps the whole subject set of a class in one transaction
	ReplaceSubjects(ctx context.Context, classID uuid.UUID, subjectIDs []uuid.UUID) error
}

// SubjectFilter narrows subject listings
type SubjectFilter struct {
	Search string
	Sort   shared.Sort
	Page   shared.Page
}

// SubjectRepository persists subjects
type SubjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subject, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	List(ctx context.Context, filter SubjectFilter) ([]Subject, int64, error)
	Create(ctx context.Context, s *Subject) error
	Save(ctx context.Context, s *Subject) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnrollmentDetail is an enrollment with its student and class identities
type EnrollmentDetail struct {
	Enrollment
	Student StudentRef `json:"student"`
	Class   ClassRef   `json:"classSection"`
}

// EnrollmentFilter narrows enrollment listings
type EnrollmentFilter struct {
	StudentID      *uuid.UUID
	ClassSectionID *uuid.UUID
	AcademicYear   string
	Page           shared.Page
}

// EnrollmentRepository persists enrollments
type EnrollmentRepository interface {
	// CreateWithinCapacity locks the class row, counts its enrollments for
	// the academic year and inserts e only when the class has room.
	// Returns ErrClassNotFound or ErrClassFull.
	CreateWithinCapacity(ctx context.Context, e *Enrollment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]EnrollmentDetail, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Sortable fields and default orderings per resource
var (
	StudentSortFields  = []string{"firstName", "lastName", "studentId", "createdAt", "updatedAt", "status"}
	DefaultStudentSort = shared.Sort{Field: "createdAt", Desc: true}

	TeacherSortFields  = []string{"firstName", "lastName", "employeeId", "createdAt", "status"}
	DefaultTeacherSort = shared.Sort{Field: "createdAt", Desc: true}

	ClassSortFields  = []string{"name", "grade", "academicYear", "capacity", "createdAt"}
	DefaultClassSort = shared.Sort{Field: "name"}

	SubjectSortFields  = []string{"name", "code", "createdAt"}
	DefaultSubjectSort = shared.Sort{Field: "name"}
)
