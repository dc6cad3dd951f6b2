package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-02", true},
		{"2025-01-02T10:30:00Z", true},
		{"2025-01-02T10:30:00-03:00", true},
		{" 2025-01-02 ", true},
		{"02/01/2025", false},
		{"", false},
		{"not-a-date", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: expected ok, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
		if tc.ok && d.IsZero() {
			t.Fatalf("%q: parsed to zero date", tc.in)
		}
	}
}

func TestDateUnmarshalJSON(t *testing.T) {
	var e Expense
	payload := `{"id":"e1","amount":12.5,"date":"2025-03-10","createdAt":"2025-03-10T08:00:00Z"}`
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Date.SameMonth(2025, time.March) {
		t.Fatalf("expected March 2025, got %v", e.Date)
	}

	var withNull Expense
	if err := json.Unmarshal([]byte(`{"id":"e2","date":null}`), &withNull); err != nil {
		t.Fatalf("null date should decode: %v", err)
	}
	if !withNull.Date.IsZero() {
		t.Fatalf("null date should be zero")
	}
}

func TestCreateExpenseValidate(t *testing.T) {
	good := CreateExpense{
		Description: "Almoço",
		Amount:      25.9,
		Category:    "Comida",
		Date:        "2025-03-10",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mod  func(c *CreateExpense)
		want error
	}{
		{"empty description", func(c *CreateExpense) { c.Description = "  " }, ErrEmptyDescription},
		{"negative amount", func(c *CreateExpense) { c.Amount = -1 }, ErrInvalidAmount},
		{"unknown category", func(c *CreateExpense) { c.Category = "Viagem" }, ErrInvalidCategory},
		{"bad date", func(c *CreateExpense) { c.Date = "10/03/2025" }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := good
			tc.mod(&c)
			if err := c.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDraftToCreate(t *testing.T) {
	d := DraftExpense{
		TempID:      "tmp-1",
		Description: "Café",
		Amount:      8,
		Category:    "Comida",
		Date:        "2025-03-10",
	}
	c := d.ToCreate()
	if c.Description != d.Description || c.Amount != d.Amount || c.Category != d.Category || c.Date != d.Date {
		t.Fatalf("payload mismatch: %+v", c)
	}
}
