// This file implements one window strategy per budget period. Each strategy
// knows how to find the period window that contains a given day, anchored on
// the budget's start date.

package core

import "fmt"

// PeriodWindower is the strategy interface for budget periods.
type PeriodWindower interface {
	// Window returns the inclusive [start, end] window containing asOf.
	Window(anchor, asOf Date) (start, end Date)
}

// DailyWindow is a single day.
type DailyWindow struct{}

func (DailyWindow) Window(_, asOf Date) (Date, Date) { return asOf, asOf }

// WeeklyWindow is seven days starting on the anchor's weekday.
type WeeklyWindow struct{}

func (WeeklyWindow) Window(anchor, asOf Date) (Date, Date) {
	offset := (int(asOf.Weekday()) - int(anchor.Weekday()) + 7) % 7
	start := asOf.AddDays(-offset)
	return start, start.AddDays(6)
}

// MonthlyWindow starts on the anchor's day of month. Anchors past the end
// of a short month are clamped to its last day.
type MonthlyWindow struct{}

func (MonthlyWindow) Window(anchor, asOf Date) (Date, Date) {
	start := monthAnchor(asOf.Year(), asOf.Month(), anchor.Day())
	if start.After(asOf) {
		start = monthAnchor(asOf.Year(), asOf.Month()-1, anchor.Day())
	}
	next := monthAnchor(start.Year(), start.Month()+1, anchor.Day())
	return start, next.AddDays(-1)
}

// YearlyWindow starts on the anchor's month and day every year.
type YearlyWindow struct{}

func (YearlyWindow) Window(anchor, asOf Date) (Date, Date) {
	start := yearAnchor(asOf.Year(), anchor)
	if start.After(asOf) {
		start = yearAnchor(asOf.Year()-1, anchor)
	}
	return start, yearAnchor(start.Year()+1, anchor).AddDays(-1)
}

func monthAnchor(year, month, day int) Date {
	first := NewDate(year, month, 1)
	last := NewDate(first.Year(), first.Month()+1, 0).Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

func yearAnchor(year int, anchor Date) Date {
	return monthAnchor(year, anchor.Month(), anchor.Day())
}

var periodWindows = map[Period]PeriodWindower{
	Daily:   DailyWindow{},
	Weekly:  WeeklyWindow{},
	Monthly: MonthlyWindow{},
	Yearly:  YearlyWindow{},
}

// WindowFor returns the strategy for a period.
func WindowFor(p Period) (PeriodWindower, error) {
	w, ok := periodWindows[p]
	if !ok {
		return nil, fmt.Errorf("unknown period: %s", p)
	}
	return w, nil
}

// Window returns the window of b's period that contains asOf.
func (b Budget) Window(asOf Date) (Date, Date, error) {
	w, err := WindowFor(b.Period)
	if err != nil {
		return Date{}, Date{}, err
	}
	anchor := b.StartDate
	if anchor.IsZero() {
		anchor = DateOf(b.CreatedAt)
	}
	start, end := w.Window(anchor, asOf)
	return start, end, nil
}
