package engine

import (
	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// Cadence is a recognized recurring billing interval.
type Cadence string

const (
	CadenceWeekly    Cadence = "WEEKLY"
	CadenceBiWeekly  Cadence = "BIWEEKLY"
	CadenceMonthly   Cadence = "MONTHLY"
	CadenceQuarterly Cadence = "QUARTERLY"
	CadenceAnnual    Cadence = "ANNUAL"
	CadenceIrregular Cadence = "IRREGULAR"
)

// minCadenceGaps is the number of consecutive in-band gaps required before a
// date sequence counts as a subscription.
const minCadenceGaps = 3

type cadenceBand struct {
	cadence   Cadence
	period    int // canonical days between charges
	tolerance int // ± days
}

func (t Tolerances) bands() []cadenceBand {
	// Shortest period first; classification returns the first match.
	return []cadenceBand{
		{CadenceWeekly, 7, t.Weekly},
		{CadenceBiWeekly, 14, t.BiWeekly},
		{CadenceMonthly, 30, t.Monthly},
		{CadenceQuarterly, 90, t.Quarterly},
		{CadenceAnnual, 365, t.Annual},
	}
}

// ClassifyCadence decides whether a sorted date sequence forms a regular
// billing cadence. A cadence is recognized when at least minCadenceGaps
// consecutive day gaps fall within the tolerance band around its canonical
// period. Returns CadenceIrregular when no band matches.
func ClassifyCadence(dates []invoice.Date, tol Tolerances) Cadence {
	if len(dates) < minCadenceGaps+1 {
		return CadenceIrregular
	}

	gaps := make([]int, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i-1].DaysUntil(dates[i]))
	}

	for _, band := range tol.bands() {
		run := 0
		for _, gap := range gaps {
			if abs(gap-band.period) <= band.tolerance {
				run++
				if run >= minCadenceGaps {
					return band.cadence
				}
			} else {
				run = 0
			}
		}
	}
	return CadenceIrregular
}

var (
	daysPerMonth = decimal.NewFromInt(30)
	daysPerWeek  = decimal.NewFromInt(7)
	daysBiWeekly = decimal.NewFromInt(14)
	three        = decimal.NewFromInt(3)
	twelve       = decimal.NewFromInt(12)
)

// MonthlyEquivalent converts a per-charge amount into its monthly-equivalent
// cost for the given cadence. Irregular amounts pass through unchanged.
func MonthlyEquivalent(amount decimal.Decimal, cadence Cadence) decimal.Decimal {
	switch cadence {
	case CadenceWeekly:
		return amount.Mul(daysPerMonth).Div(daysPerWeek).Round(2)
	case CadenceBiWeekly:
		return amount.Mul(daysPerMonth).Div(daysBiWeekly).Round(2)
	case CadenceQuarterly:
		return amount.Div(three).Round(2)
	case CadenceAnnual:
		return amount.Div(twelve).Round(2)
	default:
		return amount
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
