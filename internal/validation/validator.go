package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/slunch-api/internal/models"
)

// custom validation tags
const normalUnicodeTag = "normal_unicode"

const byteOrderMark = '\uFEFF'

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Rules for the user-controlled parts of a comment
var (
	usernameRule = fmt.Sprintf("required,max=%d,%s", models.MaxUsernameLength, normalUnicodeTag)
	commentRule  = fmt.Sprintf("required,max=%d,%s", models.MaxCommentLength, normalUnicodeTag)
)

// Validator checks user-supplied comment content before it is persisted
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the custom tags registered
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation(normalUnicodeTag, normalUnicodeValidation)

	return &Validator{validate: v}
}

// ValidateComment validates both username and comment text
func (v *Validator) ValidateComment(username, text string) []ValidationError {
	errs := v.field("username", username, usernameRule)
	return append(errs, v.field("comment", text, commentRule)...)
}

// ValidateText validates comment text alone, as used by edits
func (v *Validator) ValidateText(text string) []ValidationError {
	return v.field("comment", text, commentRule)
}

func (v *Validator) field(name, value, rule string) []ValidationError {
	errs := toValidationErrors(v.validate.Var(value, rule))
	for i := range errs {
		errs[i].Field = name
	}
	return errs
}

// IsNormalUnicode reports whether s is valid UTF-8 free of surrogates,
// replacement characters and the byte-order mark.
//
// Go cannot hold a lone surrogate in a valid string: JSON decoding turns
// one into U+FFFD, so the replacement character is rejected alongside.
func IsNormalUnicode(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == byteOrderMark, r == utf8.RuneError:
			return false
		case r >= 0xD800 && r <= 0xDFFF:
			return false
		}
	}
	return true
}

func normalUnicodeValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return IsNormalUnicode(str)
	}
	return false
}

func toValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}

	errors := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errors = append(errors, ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return errors
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case normalUnicodeTag:
		return "contains disallowed unicode characters"
	default:
		return "is invalid"
	}
}
