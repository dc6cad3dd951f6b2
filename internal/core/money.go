// Package core holds the domain types shared by the services, the state
// containers and the dashboard aggregator.
//
// This file contains helpers for coercing monetary amounts out of
// loosely-typed backend payloads and for the MM/yyyy month keys used by
// the period-totals endpoint.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CoerceAmount converts an arbitrary JSON value into a non-negative
// amount. Extraction responses carry amounts as numbers or as strings
// with either dot or comma decimal separators; anything unparseable
// coerces to 0 rather than failing the whole item.
//
// Examples:
//
//	CoerceAmount(12.5)    -> 12.5
//	CoerceAmount("12,50") -> 12.5
//	CoerceAmount(nil)     -> 0
func CoerceAmount(v any) float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0
		}
		return t
	case int:
		if t < 0 {
			return 0
		}
		return float64(t)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return 0
		}
		return f
	default:
		return 0
	}
}

// MonthKey formats a time as the MM/yyyy key used by the period-totals
// mapping.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%02d/%04d", int(t.Month()), t.Year())
}

// ParseMonthKey parses an MM/yyyy key back into the first instant of
// that month in UTC.
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.Parse("01/2006", key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t, nil
}

// PrevMonthKey returns the key of the month before t.
func PrevMonthKey(t time.Time) string {
	year, month := t.Year(), int(t.Month())-1
	if month < 1 {
		month = 12
		year--
	}
	return fmt.Sprintf("%02d/%04d", month, year)
}
