package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"github.com/shopspring/decimal"
)

// form collects presence and range checks into a ValidationError.
type form struct {
	ve common.ValidationError
}

func (f *form) required(field, v string) {
	if strings.TrimSpace(v) == "" {
		f.ve.Add(field, "is required")
	}
}

func (f *form) positive(field string, v decimal.Decimal) {
	if !v.IsPositive() {
		f.ve.Add(field, "must be greater than zero")
	}
}

func (f *form) nonNegative(field string, v decimal.Decimal) {
	if v.IsNegative() {
		f.ve.Add(field, "must not be negative")
	}
}

// places rejects values with more fractional digits than the ledger keeps.
func (f *form) places(field string, v decimal.Decimal, n int32) {
	if !v.Equal(v.Truncate(n)) {
		f.ve.Add(field, fmt.Sprintf("must have at most %d decimal places", n))
	}
}

func (f *form) date(field string, v time.Time) {
	if v.IsZero() {
		f.ve.Add(field, "is required")
	}
}

// schedule checks both dates and that arrival is not before departure.
func (f *form) schedule(departure, arrival time.Time) {
	f.date("departure_date", departure)
	f.date("arrival_date", arrival)
	if !departure.IsZero() && !arrival.IsZero() && arrival.Before(departure) {
		f.ve.Add("arrival_date", "must not be before departure_date")
	}
}

func (f *form) check(cond bool, field, message string) {
	if !cond {
		f.ve.Add(field, message)
	}
}

func (f *form) err() error {
	return f.ve.OrNil()
}

// ValidIMO reports whether s is a seven digit IMO ship number (optionally
// prefixed with "IMO") with a correct check digit.
func ValidIMO(s string) bool {
	s = strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "IMO"))
	if len(s) != 7 {
		return false
	}
	sum := 0
	for i := 0; i < 7; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		if i < 6 {
			sum += int(c-'0') * (7 - i)
		}
	}
	return sum%10 == int(s[6]-'0')
}

// NormalizeIMO strips the optional prefix and whitespace.
func NormalizeIMO(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "IMO"))
}

var errInvalidOrderID = validationErr("order_id", "must be a uuid")

func validationErr(field, message string) error {
	ve := &common.ValidationError{}
	ve.Add(field, message)
	return ve
}
