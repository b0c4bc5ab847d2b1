// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and decimal representations.
package core

import (
	"bytes"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount bounds a single parsed amount to one billion major units, which
// leaves room for about 92 million maximal entries before a sum of cents
// reaches the int64 limit.
var maxAmount = decimal.New(1, 9)

// ParseAmount converts a signed decimal string to Money with half-up rounding
// on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Positive
// values are income, negative values are expenses. Returns a ValidationError
// for anything that is not a finite number.
//
// Examples:
//
//	ParseAmount("-42.50") -> Money{-4250}, nil
//	ParseAmount("12,345") -> Money{1235}, nil (rounds up)
//	ParseAmount("abc")    -> Money{}, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, invalid("amount", raw, ErrInvalidAmount)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, invalid("amount", raw, ErrInvalidAmount)
	}
	return moneyFromDecimal(raw, d)
}

func moneyFromDecimal(raw string, d decimal.Decimal) (Money, error) {
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return Money{}, invalid("amount", raw, ErrInvalidAmount)
	}
	return Money{Cents: d.Round(2).Shift(2).IntPart()}, nil
}

// Cents builds Money from a cent value.
func Cents(c int64) Money { return Money{Cents: c} }

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.Cents, -2) }

// Float returns the amount as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Float() float64 { return float64(m.Cents) / 100.0 }

// String formats the amount with two decimals, e.g. "-42.50".
func (m Money) String() string { return m.Decimal().StringFixed(2) }

// Add returns m+n, clamped to the int64 range instead of wrapping.
func (m Money) Add(n Money) Money {
	sum := m.Cents + n.Cents
	switch {
	case n.Cents > 0 && sum < m.Cents:
		return Money{Cents: math.MaxInt64}
	case n.Cents < 0 && sum > m.Cents:
		return Money{Cents: math.MinInt64}
	}
	return Money{Cents: sum}
}

// Sub returns m-n, clamped like Add.
func (m Money) Sub(n Money) Money {
	if n.Cents == math.MinInt64 {
		return m.Add(Money{Cents: math.MaxInt64}).Add(Money{Cents: 1})
	}
	return m.Add(n.Neg())
}

func (m Money) Neg() Money   { return Money{Cents: -m.Cents} }
func (m Money) IsZero() bool { return m.Cents == 0 }

// MarshalJSON writes the amount as a bare JSON number in major units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	if raw == "" || raw == "null" {
		return invalid("amount", raw, ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return invalid("amount", raw, ErrInvalidAmount)
	}
	v, err := moneyFromDecimal(raw, d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
