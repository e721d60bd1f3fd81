package persistence

import (
	"strings"

	"github.com/school/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortColumns maps API sort field names to table columns. Only mapped
// fields ever reach ORDER BY.
type SortColumns map[string]string

// Column resolves field to its column, falling back to def
func (s SortColumns) Column(field, def string) string {
	if col, ok := s[strings.TrimSpace(field)]; ok {
		return col
	}
	return def
}

// Sort columns per resource
var (
	StudentSortColumns = SortColumns{
		"firstName": "first_name",
		"lastName":  "last_name",
		"studentId": "student_number",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"status":    "status",
	}

	TeacherSortColumns = SortColumns{
		"firstName":  "first_name",
		"lastName":   "last_name",
		"employeeId": "employee_id",
		"createdAt":  "created_at",
		"status":     "status",
	}

	ClassSortColumns = SortColumns{
		"name":         "name",
		"grade":        "grade",
		"academicYear": "academic_year",
		"capacity":     "capacity",
		"createdAt":    "created_at",
	}

	SubjectSortColumns = SortColumns{
		"name":      "name",
		"code":      "code",
		"createdAt": "created_at",
	}
)

// applySort orders db by sort, resolving the field through columns. An
// unmapped field falls back to def. The id tiebreaker keeps paging stable.
func applySort(db *gorm.DB, table string, sort shared.Sort, columns SortColumns, def string) *gorm.DB {
	col := columns.Column(sort.Field, def)
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Table: table, Name: col}, Desc: sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: table, Name: "id"}})
}

// paginate applies LIMIT/OFFSET for p
func paginate(db *gorm.DB, p shared.Page) *gorm.DB {
	return db.Limit(p.Size()).Offset(p.Offset())
}

// likePattern builds a lower-cased %term% pattern with LIKE wildcards escaped
func likePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	term = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + term + "%"
}

// searchAny adds a case-insensitive OR match of pattern across columns.
// LOWER(...) LIKE works the same on PostgreSQL and SQLite.
func searchAny(db *gorm.DB, term string, columns ...string) *gorm.DB {
	if strings.TrimSpace(term) == "" || len(columns) == 0 {
		return db
	}
	pattern := likePattern(term)
	var sb strings.Builder
	args := make([]any, 0, len(columns))
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteString("LOWER(" + col + ") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	return db.Where("("+sb.String()+")", args...)
}
