package rules

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the input formats accepted for date-like form values, tried
// in order. Output is always DateLayout.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-Jan-2006",
}

// DateLayout is the wire representation for dates on outbound payloads.
const DateLayout = "2006-01-02"

// ToNullableNumber coerces a raw form value to a number. Empty, whitespace
// and unparseable inputs become nil, as do non-finite parse results - NaN
// and Infinity never escape this boundary.
func ToNullableNumber(v string) *float64 {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// ToNullableString trims the value; empty and all-whitespace inputs become nil.
func ToNullableString(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	return &s
}

// ToNullableDate coerces a date-like form value to the fixed YYYY-MM-DD wire
// format. Invalid dates become nil, never an error.
func ToNullableDate(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format(DateLayout)
			return &out
		}
	}
	return nil
}

// DisplayDate is the display-bound variant of ToNullableDate: it emits an
// empty string instead of nil so the value can seed a form input directly.
func DisplayDate(v string) string {
	if d := ToNullableDate(v); d != nil {
		return *d
	}
	return ""
}
