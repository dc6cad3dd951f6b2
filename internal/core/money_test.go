package core

import (
	"testing"
	"time"
)

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		in  any
		out float64
	}{
		{12.5, 12.5},
		{"12.5", 12.5},
		{"12,50", 12.5},
		{" 3.99 ", 3.99},
		{int(7), 7},
		{0.0, 0},
		{"abc", 0},
		{"", 0},
		{nil, 0},
		{-4.2, 0},
		{"-4.2", 0},
		{map[string]any{}, 0},
	}
	for i, tc := range cases {
		if got := CoerceAmount(tc.in); got != tc.out {
			t.Fatalf("case %d (%v): expected %v, got %v", i, tc.in, tc.out, got)
		}
	}
}

func TestMonthKey(t *testing.T) {
	cases := []struct {
		t   time.Time
		key string
	}{
		{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), "03/2025"},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), "12/2024"},
		{time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC), "01/2025"},
	}
	for _, tc := range cases {
		if got := MonthKey(tc.t); got != tc.key {
			t.Fatalf("%v: expected %q, got %q", tc.t, tc.key, got)
		}
	}
}

func TestPrevMonthKey(t *testing.T) {
	cases := []struct {
		t   time.Time
		key string
	}{
		{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), "02/2025"},
		{time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "12/2024"},
	}
	for _, tc := range cases {
		if got := PrevMonthKey(tc.t); got != tc.key {
			t.Fatalf("%v: expected %q, got %q", tc.t, tc.key, got)
		}
	}
}

func TestParseMonthKey(t *testing.T) {
	got, err := ParseMonthKey("07/2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.July {
		t.Fatalf("expected July 2025, got %v", got)
	}
	if _, err := ParseMonthKey("2025-07"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}
