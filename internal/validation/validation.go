package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

// Límites de longitud de los campos de texto
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxNameLength        = 100
	MaxURLLength         = 2048
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return common.Validation("%s is required", fieldName)
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return common.Validation("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}

// ValidateEmail valida formato básico de email
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return common.Validation("email must have a valid format")
	}
	return nil
}

// ValidateRange valida que un entero esté dentro de [lo, hi]
func ValidateRange(value, lo, hi int, fieldName string) error {
	if value < lo || value > hi {
		return common.Validation("%s must be between %d and %d", fieldName, lo, hi)
	}
	return nil
}

// ValidateText combines the required and length checks of a text field
func ValidateText(value string, maxLength int, fieldName string) error {
	if err := ValidateRequired(value, fieldName); err != nil {
		return err
	}
	return ValidateMaxLength(value, maxLength, fieldName)
}

// ValidateOptionalURL only checks the length; an empty value is accepted
func ValidateOptionalURL(value, fieldName string) error {
	return ValidateMaxLength(value, MaxURLLength, fieldName)
}
