package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/identity"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	identity.BcryptCost = bcrypt.MinCost
}

func ptr[T any](v T) *T { return &v }

func seedStudent(t *testing.T, db *gorm.DB, studentID, first, last string) *academic.Student {
	t.Helper()
	s, err := academic.NewStudent(academic.StudentFields{
		StudentID: ptr(studentID),
		FirstName: ptr(first),
		LastName:  ptr(last),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormStudentRepository(db).Create(context.Background(), s))
	return s
}

func seedClass(t *testing.T, db *gorm.DB, name, section string, capacity int) *academic.ClassSection {
	t.Helper()
	c, err := academic.NewClassSection(academic.ClassFields{
		Name:         ptr(name),
		Section:      ptr(section),
		Grade:        ptr("5"),
		AcademicYear: ptr("2024-2025"),
		Capacity:     ptr(capacity),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormClassRepository(db).Create(context.Background(), c))
	return c
}

func seedSubject(t *testing.T, db *gorm.DB, name, code string) *academic.Subject {
	t.Helper()
	s, err := academic.NewSubject(name, code)
	require.NoError(t, err)
	require.NoError(t, NewGormSubjectRepository(db).Create(context.Background(), s))
	return s
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, "password123", role)
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
