// Package coerce turns raw text fields into typed product values.
//
// The lenient functions never fail: malformed input falls back to a default
// (0 for numbers, today for dates). The Parse* functions are the strict
// counterparts used for interactive entry.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrMalformed is returned when a value cannot be parsed.
	ErrMalformed = errors.New("malformed value")
	// ErrNegative is returned when a value parses but is below zero.
	ErrNegative = errors.New("value cannot be negative")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// dateInputLayout accepts both zero-padded and bare months and days.
const dateInputLayout = "1/2/2006"

// PriceToCents converts a dollar amount such as "$3.25" into cents.
// Extra fractional digits are truncated. Any parse failure yields 0.
func PriceToCents(s string) int64 {
	cents, err := ParsePrice(s)
	if err != nil {
		return 0
	}
	return cents
}

// Quantity parses an integer quantity, returning 0 when s is not an integer.
func Quantity(s string) int {
	v, err := ParseInt(s)
	if err != nil {
		return 0
	}
	return v
}

// Date parses a MM/DD/YYYY date. On failure it returns today's date as seen by now.
func Date(s string, now func() time.Time) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		return Today(now)
	}
	return d
}

// ParseInt parses a signed integer without applying a fallback.
func ParseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrMalformed, s)
	}
	return v, nil
}

// ParseDate parses a MM/DD/YYYY date, zero padding optional, without applying a fallback.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateInputLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a MM/DD/YYYY date", ErrMalformed, s)
	}
	return d, nil
}

// Today returns the calendar date of now() at midnight UTC.
func Today(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return DateOf(now())
}

// DateOf drops the time-of-day component of t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDollars is the strict form of PriceToCents: it rejects malformed and negative amounts.
func ParseDollars(s string) (int64, error) {
	cents, err := ParsePrice(s)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, ErrNegative
	}
	return cents, nil
}

// ParseQuantity is the strict form of Quantity.
func ParseQuantity(s string) (int, error) {
	v, err := ParseInt(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, ErrNegative
	}
	return v, nil
}

// FormatCents renders cents as a dollar string, e.g. 325 -> "$3.25".
func FormatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

// FormatDate renders a date as MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// ParsePrice converts a dollar amount into cents without applying a fallback.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrMalformed)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a dollar amount", ErrMalformed, s)
	}
	cents := d.Mul(hundred).Truncate(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrMalformed, s)
	}
	return cents.IntPart(), nil
}
