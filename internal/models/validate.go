package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid marks input rejected by validation.
var ErrInvalid = errors.New("invalid input")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("reminder", func(fl validator.FieldLevel) bool {
			return ValidReminder(fl.Field().String())
		})
		validate.RegisterStructValidation(func(sl validator.StructLevel) {
			in := sl.Current().Interface().(NewPrayerRequest)
			if in.EndDate != nil && in.Type != TypeFast {
				sl.ReportError(in.EndDate, "EndDate", "EndDate", "fastonly", "")
			}
		}, NewPrayerRequest{})
	})
	return validate
}

// Validate checks a creation input (NewGroup or NewPrayerRequest). The
// returned error wraps ErrInvalid and names every failing field.
func Validate(in any) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// ValidateReminder checks an optional reminder time. Nil clears the
// reminder and is always accepted.
func ValidateReminder(reminder *string) error {
	if reminder != nil && !ValidReminder(*reminder) {
		return fmt.Errorf("%w: reminder time %q must be HH:MM", ErrInvalid, *reminder)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "url":
		return fe.Field() + " must be a URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "reminder":
		return fe.Field() + " must be HH:MM"
	case "fastonly":
		return fe.Field() + " is only allowed for fasts"
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
