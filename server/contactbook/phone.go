package contactbook

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator"
)

const PHONE_NUMBER_EXAMPLE = "+380(50)1234567"

var ErrInvalidFormat = errors.New("invalid phone number format")

// Optional '+', 1-3 digit country code, 2-4 digit area code with optional
// parentheses, 3 digits, 3-4 digits with an optional dash, optional 3 digits.
var phoneNumberRegexp = regexp.MustCompile(`^\+?\d{1,3}\(?\d{2,4}\)?\d{3}(?:-?\d{3,4})(\d{3})?$`)

type InvalidFormatError struct {
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf(
		"%q is not a valid phone number, it should look like %s and have no more than 15-20 digits",
		e.Value, PHONE_NUMBER_EXAMPLE)
}

func (e *InvalidFormatError) Unwrap() error {
	return ErrInvalidFormat
}

// ValidatePhoneNumber returns an *InvalidFormatError unless raw is a phone number
// such as +380(50)1234567
func ValidatePhoneNumber(raw string) error {
	if !phoneNumberRegexp.MatchString(raw) {
		return &InvalidFormatError{Value: raw}
	}
	return nil
}

// IsValidPhoneNumber reports whether raw is an acceptable phone number
func IsValidPhoneNumber(raw string) bool {
	return ValidatePhoneNumber(raw) == nil
}

// RegisterPhoneNumberValidation adds the 'phone_number' tag to validate
func RegisterPhoneNumberValidation(validate *validator.Validate) error {
	return validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return IsValidPhoneNumber(fl.Field().String())
	})
}
