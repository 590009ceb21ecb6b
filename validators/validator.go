// Package validators wires go-playground/validator into echo.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var reservedUsernames = map[string]struct{}{
	"me":    {},
	"root":  {},
	"admin": {},
}

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("username", validateUsername)

	return &CustomValidator{validate: v}
}

// Validate checks i against its struct tags and returns an apperr validation error on failure.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperr.Validation(strings.Join(msgs, "; "))
}

func validateUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !usernamePattern.MatchString(s) {
		return false
	}
	_, reserved := reservedUsernames[strings.ToLower(s)]
	return !reserved
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min", "gt":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must have at least %s items or characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "username":
		return fmt.Sprintf("%s contains forbidden characters or is reserved", field)
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
