package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/school/backend/internal/domain/attendance"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/interfaces/http/dto"
)

var errRequestTooLarge = shared.NewDomainError(dto.ErrCodeRequestTooLarge, requestTooLargeMessage)

// SetupValidator reports fields by their json (or form) names and
// registers the school specific tags.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		_, err := attendance.ParseStatus(fl.Field().String())
		return err == nil
	})
}

// BindingError converts an error from gin binding into a domain error:
// oversize bodies become REQUEST_TOO_LARGE, everything else
// VALIDATION_ERROR with per-field details where they are known.
func BindingError(err error) error {
	var (
		maxBytes  *http.MaxBytesError
		verrs     validator.ValidationErrors
		syntax    *json.SyntaxError
		typeError *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxBytes):
		return errRequestTooLarge
	case errors.As(err, &verrs):
		fields := make([]shared.FieldError, 0, len(verrs))
		for _, e := range verrs {
			fields = append(fields, shared.FieldError{Field: e.Field(), Message: validationMessage(e)})
		}
		return shared.NewValidationError(fields...)
	case errors.As(err, &typeError):
		return shared.NewValidationError(shared.FieldError{
			Field:   typeError.Field,
			Message: "Must be of type " + typeError.Type.String(),
		})
	case errors.As(err, &syntax), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return shared.ErrValidation.WithMessage("Request body must be valid JSON")
	default:
		return shared.ErrValidation.WithMessage(err.Error())
	}
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "datetime":
		return "Must be a date in the format " + e.Param()
	case "attendance_status":
		return "Status must be P (Present), A (Absent), or L (Late)"
	default:
		return "Invalid value"
	}
}
