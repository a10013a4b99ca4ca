package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

func datesEvery(start invoice.Date, gapDays, count int) []invoice.Date {
	dates := make([]invoice.Date, count)
	for i := 0; i < count; i++ {
		dates[i] = invoice.Date{Time: start.AddDate(0, 0, i*gapDays)}
	}
	return dates
}

func TestClassifyCadence(t *testing.T) {
	start := invoice.NewDate(2025, time.January, 5)
	tol := DefaultTolerances()

	tests := []struct {
		name  string
		dates []invoice.Date
		want  Cadence
	}{
		{
			name:  "empty sequence",
			dates: nil,
			want:  CadenceIrregular,
		},
		{
			name:  "three dates is one gap short",
			dates: datesEvery(start, 30, 3),
			want:  CadenceIrregular,
		},
		{
			name:  "four monthly dates",
			dates: datesEvery(start, 30, 4),
			want:  CadenceMonthly,
		},
		{
			name:  "six weekly dates",
			dates: datesEvery(start, 7, 6),
			want:  CadenceWeekly,
		},
		{
			name:  "biweekly does not match the weekly band",
			dates: datesEvery(start, 14, 5),
			want:  CadenceBiWeekly,
		},
		{
			name:  "quarterly",
			dates: datesEvery(start, 90, 5),
			want:  CadenceQuarterly,
		},
		{
			name:  "annual with drift inside tolerance",
			dates: []invoice.Date{
				invoice.NewDate(2021, time.March, 1),
				invoice.NewDate(2022, time.March, 10),
				invoice.NewDate(2023, time.March, 5),
				invoice.NewDate(2024, time.February, 25),
			},
			want: CadenceAnnual,
		},
		{
			name: "monthly with jitter inside tolerance",
			dates: []invoice.Date{
				invoice.NewDate(2025, time.January, 5),
				invoice.NewDate(2025, time.February, 7),
				invoice.NewDate(2025, time.March, 6),
				invoice.NewDate(2025, time.April, 9),
				invoice.NewDate(2025, time.May, 8),
				invoice.NewDate(2025, time.June, 7),
			},
			want: CadenceMonthly,
		},
		{
			name: "duplicate date breaks one run but a later run matches",
			dates: []invoice.Date{
				invoice.NewDate(2025, time.January, 1),
				invoice.NewDate(2025, time.January, 31),
				invoice.NewDate(2025, time.January, 31),
				invoice.NewDate(2025, time.March, 2),
				invoice.NewDate(2025, time.April, 1),
				invoice.NewDate(2025, time.May, 1),
			},
			want: CadenceMonthly,
		},
		{
			name: "random gaps",
			dates: []invoice.Date{
				invoice.NewDate(2025, time.January, 1),
				invoice.NewDate(2025, time.January, 4),
				invoice.NewDate(2025, time.February, 20),
				invoice.NewDate(2025, time.March, 1),
				invoice.NewDate(2025, time.June, 12),
			},
			want: CadenceIrregular,
		},
		{
			name:  "two adjacent charges only",
			dates: datesEvery(start, 1, 2),
			want:  CadenceIrregular,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyCadence(tt.dates, tol)
			if got != tt.want {
				t.Errorf("ClassifyCadence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyCadence_CustomTolerances(t *testing.T) {
	start := invoice.NewDate(2025, time.January, 1)
	// 10-day gaps: outside the stock weekly band, inside a widened one.
	dates := datesEvery(start, 10, 5)

	if got := ClassifyCadence(dates, DefaultTolerances()); got != CadenceIrregular {
		t.Fatalf("stock tolerances: got %v, want %v", got, CadenceIrregular)
	}

	wide := DefaultTolerances()
	wide.Weekly = 3
	if got := ClassifyCadence(dates, wide); got != CadenceWeekly {
		t.Fatalf("widened weekly band: got %v, want %v", got, CadenceWeekly)
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		cadence Cadence
		want    string
	}{
		{"monthly passes through", "15.99", CadenceMonthly, "15.99"},
		{"weekly scales up", "7.00", CadenceWeekly, "30.00"},
		{"biweekly scales up", "14.00", CadenceBiWeekly, "30.00"},
		{"quarterly divides by three", "90.00", CadenceQuarterly, "30.00"},
		{"annual divides by twelve", "120.00", CadenceAnnual, "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got := MonthlyEquivalent(amount, tt.cadence)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("MonthlyEquivalent(%s, %s) = %s, want %s", tt.amount, tt.cadence, got, tt.want)
			}
		})
	}
}
