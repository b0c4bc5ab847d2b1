package core

import (
	"strings"
	"time"
)

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

const maxDescriptionLen = 200

type (
	// Period is the span a Budget limit applies to.
	Period string

	// Money is a signed amount in cents. Income is positive, expenses are negative.
	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Date        Date      `json:"date"`
		Description string    `json:"description,omitempty"`
		Notes       string    `json:"notes,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// Budget limits spend for one category over one period. The link to
	// transactions is by category name only.
	Budget struct {
		ID          string    `json:"id"`
		Category    string    `json:"category"`
		Period      Period    `json:"period"`
		Limit       Money     `json:"limit"`
		StartDate   Date      `json:"startDate"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
	}
)

// IsValid reports whether p is one of the known periods.
func (p Period) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

func (p Period) String() string { return string(p) }

// ParsePeriod normalises case and surrounding spaces.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", invalid("period", s, ErrInvalidPeriod)
	}
	return p, nil
}

// IsIncome reports whether the transaction adds money to the ledger.
func (t Transaction) IsIncome() bool { return t.Amount.Cents > 0 }

// IsExpense reports whether the transaction removes money from the ledger.
func (t Transaction) IsExpense() bool { return t.Amount.Cents < 0 }

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return invalid("id", t.ID, ErrEmptyID)
	}
	if err := t.Date.Validate(); err != nil {
		return invalid("date", t.Date.String(), err)
	}
	if strings.TrimSpace(t.Category) == "" {
		return invalid("category", t.Category, ErrEmptyCategory)
	}
	if len(t.Description) > maxDescriptionLen {
		return invalid("description", t.Description, ErrDescriptionTooLong)
	}
	if t.CreatedAt.IsZero() {
		return invalid("createdAt", "", ErrZeroCreatedAt)
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return invalid("id", b.ID, ErrEmptyID)
	}
	if strings.TrimSpace(b.Category) == "" {
		return invalid("category", b.Category, ErrEmptyCategory)
	}
	if !b.Period.IsValid() {
		return invalid("period", string(b.Period), ErrInvalidPeriod)
	}
	if b.Limit.Cents <= 0 {
		return invalid("limit", b.Limit.String(), ErrNonPositiveLimit)
	}
	if err := b.StartDate.Validate(); err != nil {
		return invalid("startDate", b.StartDate.String(), err)
	}
	if len(b.Description) > maxDescriptionLen {
		return invalid("description", b.Description, ErrDescriptionTooLong)
	}
	if b.CreatedAt.IsZero() {
		return invalid("createdAt", "", ErrZeroCreatedAt)
	}
	return nil
}
