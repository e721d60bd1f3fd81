package persistence

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/school/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes for constraint violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// TranslateError maps driver and GORM errors to domain errors so raw
// driver codes never reach clients. Errors it does not recognize are
// returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if field := constraintField(pgErr.Detail); field != "" {
				return shared.ErrDuplicate.WithDetails(map[string]string{"field": field}).WithMessage(
					fmt.Sprintf("A record with this %s already exists", field))
			}
			return shared.ErrDuplicate
		case pgForeignKeyViolation:
			if field := constraintField(pgErr.Detail); field != "" {
				return shared.ErrForeignKey.WithDetails(map[string]string{"field": field})
			}
			return shared.ErrForeignKey
		case pgCheckViolation:
			return shared.ErrValidation.WithDetails(map[string]string{"constraint": pgErr.ConstraintName})
		}
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrForeignKey
	}
	return err
}

// notFound returns notFoundErr for a missing row and translates anything else
func notFound(err error, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return TranslateError(err)
}

// columnFields names columns whose API field is not their camelCase form
var columnFields = map[string]string{
	"student_number": "studentId",
}

// constraintField extracts the camelCase column list from a PostgreSQL
// detail such as `Key (student_id, date)=(...) already exists.`
func constraintField(detail string) string {
	start := strings.Index(detail, "Key (")
	if start < 0 {
		return ""
	}
	rest := detail[start+len("Key ("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return ""
	}
	cols := strings.Split(rest[:end], ",")
	for i, c := range cols {
		c = strings.TrimSpace(c)
		if field, ok := columnFields[c]; ok {
			cols[i] = field
			continue
		}
		cols[i] = camelCase(c)
	}
	return strings.Join(cols, ", ")
}

func camelCase(column string) string {
	var b strings.Builder
	upper := false
	for _, r := range column {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
