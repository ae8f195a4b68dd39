// Package parse converts validated-looking strings into ledger values:
// calendar dates, integer cents and counts. Every function appends its
// failure to a caller supplied error list so that several fields can be
// checked before reporting.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
)

var (
	dateRe   = regexp.MustCompile(`^(\d{4})-(\d\d)-(\d\d)$`)
	amountRe = regexp.MustCompile(`^[-+]?\d+\.\d\d$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
)

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days of month in year.
func DaysIn(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// Date checks that s is a YYYY-MM-DD string naming a real calendar day and
// returns it unchanged (trimmed).
func Date(s string, errs *apperr.List) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add(apperr.BadRequest, "date must be provided")
		return "", false
	}
	m := dateRe.FindStringSubmatch(s)
	if m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= DaysIn(year, month) {
			return s, true
		}
	}
	errs.Add(apperr.BadValue, fmt.Sprintf("bad date %q", s))
	return "", false
}

// AmountCents converts a signed decimal with exactly two fraction digits
// into integer cents: "-12.34" becomes -1234.
func AmountCents(s string, errs *apperr.List) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add(apperr.BadRequest, "amount must be provided")
		return 0, false
	}
	if !amountRe.MatchString(s) {
		errs.Add(apperr.BadValue, fmt.Sprintf("bad amount %q: must be number with 2 decimals", s))
		return 0, false
	}
	cents, err := strconv.ParseInt(strings.Replace(s, ".", "", 1), 10, 64)
	if err != nil {
		errs.Add(apperr.BadValue, fmt.Sprintf("bad amount %q: out of range", s))
		return 0, false
	}
	return cents, true
}

// PositiveInt accepts an all-digit string with a value greater than zero.
func PositiveInt(s string, errs *apperr.List) (int, bool) {
	n, ok := digits(s, errs, "must be a positive integer")
	if ok && n == 0 {
		errs.Add(apperr.BadValue, fmt.Sprintf("bad value %q: must be a positive integer", strings.TrimSpace(s)))
		return 0, false
	}
	return n, ok
}

// NonNegativeInt accepts an all-digit string, zero included.
func NonNegativeInt(s string, errs *apperr.List) (int, bool) {
	return digits(s, errs, "must be a non-negative integer")
}

func digits(s string, errs *apperr.List, want string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		errs.Add(apperr.BadRequest, fmt.Sprintf("value %s", want))
		return 0, false
	}
	if digitsRe.MatchString(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	errs.Add(apperr.BadValue, fmt.Sprintf("bad value %q: %s", s, want))
	return 0, false
}

// CentsToDecimal returns cents/100 exactly.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
