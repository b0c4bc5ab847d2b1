package core

import (
	"strings"
	"time"
)

// TransactionFields is a partial field set for creating or updating a
// Transaction. A nil field is "not supplied". Values are raw caller input
// and are validated when building or applying.
type TransactionFields struct {
	Amount      *string
	Category    *string
	Date        *string
	Description *string
	Notes       *string
}

// BudgetFields is the Budget counterpart of TransactionFields.
type BudgetFields struct {
	Category    *string
	Period      *string
	Limit       *string
	StartDate   *string
	Description *string
}

// Ptr returns a pointer to v. Handy for building field sets.
func Ptr[T any](v T) *T { return &v }

// IsEmpty reports whether no field is supplied.
func (f TransactionFields) IsEmpty() bool {
	return f.Amount == nil && f.Category == nil && f.Date == nil && f.Description == nil && f.Notes == nil
}

// Build produces a new Transaction with the given id and creation time.
// Amount, category and date are required.
func (f TransactionFields) Build(id string, now time.Time) (Transaction, error) {
	if f.Amount == nil {
		return Transaction{}, invalid("amount", "", ErrMissingField)
	}
	if f.Category == nil {
		return Transaction{}, invalid("category", "", ErrMissingField)
	}
	if f.Date == nil {
		return Transaction{}, invalid("date", "", ErrMissingField)
	}
	tx, err := f.Apply(Transaction{ID: id, CreatedAt: now})
	if err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Apply merges the supplied fields onto tx, last write wins per field.
// ID and CreatedAt are never changed. tx is not modified on error.
func (f TransactionFields) Apply(tx Transaction) (Transaction, error) {
	out := tx
	if f.Amount != nil {
		m, err := ParseAmount(*f.Amount)
		if err != nil {
			return tx, err
		}
		out.Amount = m
	}
	if f.Category != nil {
		out.Category = strings.TrimSpace(*f.Category)
	}
	if f.Date != nil {
		d, err := ParseDate(*f.Date)
		if err != nil {
			return tx, err
		}
		out.Date = d
	}
	if f.Description != nil {
		out.Description = strings.TrimSpace(*f.Description)
	}
	if f.Notes != nil {
		out.Notes = *f.Notes
	}
	if err := out.Validate(); err != nil {
		return tx, err
	}
	return out, nil
}

// IsEmpty reports whether no field is supplied.
func (f BudgetFields) IsEmpty() bool {
	return f.Category == nil && f.Period == nil && f.Limit == nil && f.StartDate == nil && f.Description == nil
}

// Build produces a new Budget. Category, period and limit are required; the
// start date defaults to the creation day.
func (f BudgetFields) Build(id string, now time.Time) (Budget, error) {
	if f.Category == nil {
		return Budget{}, invalid("category", "", ErrMissingField)
	}
	if f.Period == nil {
		return Budget{}, invalid("period", "", ErrMissingField)
	}
	if f.Limit == nil {
		return Budget{}, invalid("limit", "", ErrMissingField)
	}
	return f.Apply(Budget{ID: id, StartDate: DateOf(now), CreatedAt: now})
}

// Apply merges the supplied fields onto b. ID and CreatedAt are never changed.
func (f BudgetFields) Apply(b Budget) (Budget, error) {
	out := b
	if f.Category != nil {
		out.Category = strings.TrimSpace(*f.Category)
	}
	if f.Period != nil {
		p, err := ParsePeriod(*f.Period)
		if err != nil {
			return b, err
		}
		out.Period = p
	}
	if f.Limit != nil {
		m, err := ParseAmount(*f.Limit)
		if err != nil {
			return b, invalid("limit", *f.Limit, ErrInvalidAmount)
		}
		out.Limit = m
	}
	if f.StartDate != nil {
		d, err := ParseDate(*f.StartDate)
		if err != nil {
			return b, invalid("startDate", *f.StartDate, ErrInvalidDate)
		}
		out.StartDate = d
	}
	if f.Description != nil {
		out.Description = strings.TrimSpace(*f.Description)
	}
	if err := out.Validate(); err != nil {
		return b, err
	}
	return out, nil
}
