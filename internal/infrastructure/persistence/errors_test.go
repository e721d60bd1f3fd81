package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/school/backend/internal/domain/academic"
	"github.com/school/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, TranslateError(nil))
	})

	t.Run("unique violation names the field", func(t *testing.T) {
		err := TranslateError(fmt.Errorf("insert: %w", &pgconn.PgError{
			Code:   "23505",
			Detail: "Key (student_number)=(S-001) already exists.",
		}))
		var de *shared.DomainError
		assert.ErrorAs(t, err, &de)
		assert.Equal(t, "DUPLICATE_ENTRY", de.Code)
		assert.Equal(t, "A record with this studentId already exists", de.Message)
		assert.Equal(t, map[string]string{"field": "studentId"}, de.Details)
	})

	t.Run("composite unique key", func(t *testing.T) {
		err := TranslateError(&pgconn.PgError{
			Code:   "23505",
			Detail: "Key (name, section, academic_year)=(Grade 5, A, 2024) already exists.",
		})
		var de *shared.DomainError
		assert.ErrorAs(t, err, &de)
		assert.Equal(t, map[string]string{"field": "name, section, academicYear"}, de.Details)
	})

	t.Run("unique violation without detail", func(t *testing.T) {
		assert.Same(t, shared.ErrDuplicate, TranslateError(&pgconn.PgError{Code: "23505"}))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		err := TranslateError(&pgconn.PgError{
			Code:   "23503",
			Detail: `Key (class_teacher_id)=(abc) is not present in table "teachers".`,
		})
		assert.ErrorIs(t, err, shared.ErrForeignKey)
	})

	t.Run("check violation", func(t *testing.T) {
		err := TranslateError(&pgconn.PgError{Code: "23514", ConstraintName: "chk_marks_range"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("other SQLSTATE passes through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "40001"}
		assert.Same(t, pgErr, TranslateError(pgErr))
	})

	t.Run("gorm sentinels", func(t *testing.T) {
		assert.ErrorIs(t, TranslateError(gorm.ErrRecordNotFound), shared.ErrNotFound)
		assert.ErrorIs(t, TranslateError(gorm.ErrDuplicatedKey), shared.ErrDuplicate)
		assert.ErrorIs(t, TranslateError(gorm.ErrForeignKeyViolated), shared.ErrForeignKey)
	})

	t.Run("domain errors are kept", func(t *testing.T) {
		assert.Same(t, academic.ErrClassFull, TranslateError(academic.ErrClassFull))
	})

	t.Run("unknown errors unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Same(t, boom, TranslateError(boom))
	})
}

func TestNotFound(t *testing.T) {
	assert.Same(t, academic.ErrStudentNotFound, notFound(gorm.ErrRecordNotFound, academic.ErrStudentNotFound))
	assert.ErrorIs(t, notFound(gorm.ErrDuplicatedKey, academic.ErrStudentNotFound), shared.ErrDuplicate)
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "studentId", camelCase("student_id"))
	assert.Equal(t, "email", camelCase("email"))
	assert.Equal(t, "", constraintField("no key here"))
}
