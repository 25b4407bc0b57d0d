package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/spendlog/spendlog/internal/model"
)

// Input limits.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxCategoryLength = 100
	MaxNoteLength     = 500
)

// maxAmount is the largest value a NUMERIC(12,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999.99")

// amountPattern admits plain decimals only. Exponent forms such as "1e-30000000"
// make decimal rounding cost grow with the exponent, so they never reach the parser.
var amountPattern = regexp.MustCompile(`^\d{1,10}(\.\d{1,8})?$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email is required")
	}
	if len(email) > MaxEmailLength {
		return invalid("email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email is not valid")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return invalid("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid("name must be at most %d characters", MaxNameLength)
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return invalid("password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

func validateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", invalid("category is required")
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return "", invalid("category must be at most %d characters", MaxCategoryLength)
	}
	return category, nil
}

// ParseAmount parses a positive currency amount, accepting "12.34" or "12,34".
// Values are rounded half away from zero to cents.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, invalid("amount is required")
	}
	if !amountPattern.MatchString(s) {
		return decimal.Zero, invalid("amount %q is not a number", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid("amount %q is not a number", s)
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, invalid("amount must be greater than zero")
	}
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, invalid("amount is too large")
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD date; an empty string yields today's date.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, invalid("date must be in YYYY-MM-DD format")
	}
	return t, nil
}
