package core

import "testing"

func TestPeriodWindows(t *testing.T) {
	tests := []struct {
		name      string
		period    Period
		anchor    string
		asOf      string
		wantStart string
		wantEnd   string
	}{
		{"daily", Daily, "2024-01-01", "2024-01-15", "2024-01-15", "2024-01-15"},
		{"weekly same weekday", Weekly, "2024-01-01", "2024-01-15", "2024-01-15", "2024-01-21"},
		{"weekly mid week", Weekly, "2024-01-01", "2024-01-18", "2024-01-15", "2024-01-21"},
		{"monthly first", Monthly, "2024-01-01", "2024-03-10", "2024-03-01", "2024-03-31"},
		{"monthly before anchor day", Monthly, "2024-01-15", "2024-03-10", "2024-02-15", "2024-03-14"},
		{"monthly clamped anchor", Monthly, "2024-01-31", "2024-02-15", "2024-01-31", "2024-02-28"},
		{"monthly across year", Monthly, "2024-01-20", "2024-01-05", "2023-12-20", "2024-01-19"},
		{"yearly", Yearly, "2023-04-01", "2024-03-10", "2023-04-01", "2024-03-31"},
		{"yearly after anchor", Yearly, "2023-04-01", "2024-04-01", "2024-04-01", "2025-03-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := WindowFor(tt.period)
			if err != nil {
				t.Fatal(err)
			}
			start, end := w.Window(MustParseDate(tt.anchor), MustParseDate(tt.asOf))
			if start.String() != tt.wantStart || end.String() != tt.wantEnd {
				t.Errorf("Window() = %s..%s, want %s..%s", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestWindowForUnknown(t *testing.T) {
	if _, err := WindowFor(Period("hourly")); err == nil {
		t.Fatal("expected error for unknown period")
	}
}
