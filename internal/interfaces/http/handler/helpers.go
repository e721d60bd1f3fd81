package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/shared"
)

const dateLayout = "2006-01-02"

// pathID parses a uuid path parameter. A malformed id cannot match any
// row, so it is reported as not found.
func pathID(c *gin.Context, name string, notFound *shared.DomainError) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// queryID parses an optional uuid filter
func queryID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.NewValidationError(shared.FieldError{Field: name, Message: "Invalid UUID format"})
	}
	return &id, nil
}

// page reads page and limit query parameters
func page(c *gin.Context) shared.Page {
	return shared.NewPage(c.Query("page"), c.Query("limit"))
}

// search accepts both q and search
func search(c *gin.Context) string {
	if q := c.Query("q"); q != "" {
		return q
	}
	return c.Query("search")
}

// parseDate reads YYYY-MM-DD or RFC 3339 into a UTC calendar day
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, shared.NewValidationError(shared.FieldError{Field: field, Message: "Must be a date in the format YYYY-MM-DD"})
}

// optionalDate is parseDate for nullable fields
func optionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
