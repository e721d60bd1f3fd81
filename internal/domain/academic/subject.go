package academic

import (
	"strings"

	"github.com/school/backend/internal/domain/shared"
)

// Subject is a course taught in one or more classes
type Subject struct {
	shared.BaseEntity
	Name string `json:"name"`
	Code string `json:"code"`
}

// NewSubject creates a subject; codes are stored upper-case
func NewSubject(name, code string) (*Subject, error) {
	s := &Subject{BaseEntity: shared.NewBaseEntity()}
	if err := s.Update(&name, &code); err != nil {
		return nil, err
	}
	return s, nil
}

// Update changes the non-nil fields
func (s *Subject) Update(name, code *string) error {
	var errs []shared.FieldError
	if name != nil && strings.TrimSpace(*name) == "" {
		errs = append(errs, shared.FieldError{Field: "name", Message: "Subject name is required"})
	}
	if code != nil && strings.TrimSpace(*code) == "" {
		errs = append(errs, shared.FieldError{Field: "code", Message: "Subject code is required"})
	}
	if len(errs) > 0 {
		return shared.NewValidationError(errs...)
	}
	if name != nil {
		s.Name = strings.TrimSpace(*name)
	}
	if code != nil {
		s.Code = strings.ToUpper(strings.TrimSpace(*code))
	}
	s.Touch()
	return nil
}
