package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date as the backend serializes it. The backend is
	// not consistent about the format: expense dates arrive either as bare
	// dates ("2025-01-02") or as full RFC3339 timestamps, so unmarshalling
	// accepts both.
	Date struct {
		time.Time
	}

	// User is the authenticated account. It is replaced wholesale on
	// login/logout/bootstrap and never partially mutated.
	User struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		CreatedAt *Date  `json:"createdAt,omitempty"`
	}

	// Expense is a persisted expense record. IDs are assigned by the
	// backend; from the client's side an expense is immutable except for
	// deletion.
	Expense struct {
		ID          string  `json:"id"`
		UserID      string  `json:"userId"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Date        Date    `json:"date"`
		CreatedAt   Date    `json:"createdAt"`
	}

	// Pagination mirrors the backend's page metadata. The backend owns the
	// invariant totalPages == ceil(total/limit); the client passes it
	// through without re-deriving it.
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}

	// CreateExpense is the payload for creating an expense. Date is a
	// YYYY-MM-DD string because that is what the backend expects on writes.
	CreateExpense struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Date        string  `json:"date"`
	}

	// UpdateExpense is a partial update payload. Nil fields are omitted.
	UpdateExpense struct {
		Description *string  `json:"description,omitempty"`
		Amount      *float64 `json:"amount,omitempty"`
		Category    *string  `json:"category,omitempty"`
		Date        *string  `json:"date,omitempty"`
	}

	// DraftExpense is an expense-shaped record staged in memory before a
	// bulk save. TempID exists only for local list manipulation and is
	// never sent to the backend.
	DraftExpense struct {
		TempID      string
		Description string
		Amount      float64
		Category    string
		Date        string
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
)

const dateOnly = "2006-01-02"

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a backend date string, accepting RFC3339 timestamps
// and bare YYYY-MM-DD dates.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// UnmarshalJSON implements lenient date decoding. Null and empty strings
// decode to the zero Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = parsed.Time
	return nil
}

// MarshalJSON encodes the date as RFC3339, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

// SameMonth reports whether the date falls in the given year and month.
func (d Date) SameMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Time.Month() == month
}

func (c CreateExpense) Validate() error {
	if len(strings.TrimSpace(c.Description)) == 0 {
		return ErrEmptyDescription
	}
	if c.Amount < 0 {
		return ErrInvalidAmount
	}
	if !IsValidCategory(c.Category) {
		return ErrInvalidCategory
	}
	if _, err := time.Parse(dateOnly, c.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ToCreate converts a staged draft to its create payload, dropping the
// local temp ID.
func (d DraftExpense) ToCreate() CreateExpense {
	return CreateExpense{
		Description: d.Description,
		Amount:      d.Amount,
		Category:    d.Category,
		Date:        d.Date,
	}
}
