package shared

import (
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when the page parameter is missing or invalid
	DefaultPage = 1
	// DefaultLimit is used when the limit parameter is missing or invalid
	DefaultLimit = 10
	// MaxLimit caps the page size
	MaxLimit = 100
)

// Page is a normalized pagination request
type Page struct {
	Page  int
	Limit int
}

// NewPage parses raw query values. page is at least 1 and limit is clamped
// to 1..MaxLimit; unparsable values fall back to the defaults.
func NewPage(rawPage, rawLimit string) Page {
	page, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil {
		page = DefaultPage
	}
	if page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(strings.TrimSpace(rawLimit))
	if err != nil {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// DefaultPageRequest returns page 1 with the default limit
func DefaultPageRequest() Page {
	return Page{Page: DefaultPage, Limit: DefaultLimit}
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size()
}

// Size returns the effective limit, applying defaults to a zero value
func (p Page) Size() int {
	switch {
	case p.Limit < 1:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// Sort is a validated ordering on an API field name
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort parses "field:direction". The field must be in allowed, otherwise
// def is returned unchanged. Direction "desc" (any case) sorts descending,
// anything else ascending.
func ParseSort(raw string, allowed []string, def Sort) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	field, dir, _ := strings.Cut(raw, ":")
	for _, a := range allowed {
		if a == field {
			return Sort{Field: field, Desc: strings.EqualFold(strings.TrimSpace(dir), "desc")}
		}
	}
	return def
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginated creates a paginated result with totalPages = ceil(total/limit)
func NewPaginated[T any](items []T, total int64, p Page) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	limit := p.Size()
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}

// CollectAll drains a paged listing by calling fetch with MaxLimit pages
// until total rows have been read or a short page comes back.
func CollectAll[T any](fetch func(Page) ([]T, int64, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, total, err := fetch(Page{Page: page, Limit: MaxLimit})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < MaxLimit || int64(len(all)) >= total {
			return all, nil
		}
	}
}

// TotalPages returns ceil(total/limit), 0 for an empty result
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
