package crm

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxNameLength        = 100
	maxTitleLength       = 200
	maxEmailLength       = 254
	maxPhoneLength       = 50
	maxURLLength         = 500
	maxDescriptionLength = 5000
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(field, email string) error {
	if email == "" {
		return nil
	}
	if len(email) > maxEmailLength {
		return shared.Validation(fmt.Sprintf("%s cannot exceed %d characters", field, maxEmailLength))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return shared.Validation(fmt.Sprintf("%s is not a valid email address", field))
	}
	return nil
}

func validateMaxLength(field, value string, max int) error {
	if len(value) > max {
		return shared.Validation(fmt.Sprintf("%s cannot exceed %d characters", field, max))
	}
	return nil
}

func validateNonNegativeDecimal(field string, v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return shared.Validation(field + " cannot be negative")
	}
	return nil
}

func validateNonNegativeInt(field string, v *int) error {
	if v != nil && *v < 0 {
		return shared.Validation(field + " cannot be negative")
	}
	return nil
}

func validatePercent(field string, v int) error {
	if v < 0 || v > 100 {
		return shared.Validation(field + " must be between 0 and 100")
	}
	return nil
}

// firstErr returns the first non-nil error
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// pick returns the supplied value when non-empty, otherwise the fallback
func pick(supplied, fallback string) string {
	if s := trim(supplied); s != "" {
		return s
	}
	return fallback
}
