package engine

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
)

// aggregate merges detector outputs into the final report: it re-validates
// that no invoice pair is double-counted across duplicate kinds, orders
// findings deterministically for presentation, and computes the summary
// totals and per-kind breakdown.
func aggregate(findings []Finding, invoiceCount, vendorCount int) *Report {
	// Exact wins over probable. Detectors already enforce this per vendor
	// group; re-check here so the invariant holds regardless of upstream.
	claimed := make(map[string]bool)
	for _, f := range findings {
		if f.Kind == constants.FindingExactDuplicate {
			for _, id := range f.MemberInvoiceIDs {
				claimed[id] = true
			}
		}
	}
	kept := findings[:0]
	for _, f := range findings {
		if f.Kind == constants.FindingProbableDuplicate && anyClaimed(f.MemberInvoiceIDs, claimed) {
			continue
		}
		kept = append(kept, f)
	}

	// Presentation order: guaranteed desc, potential desc, earliest member
	// charge date asc, then stable tie-breaks so identical inputs always
	// render identically.
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if c := a.GuaranteedAmount.Cmp(b.GuaranteedAmount); c != 0 {
			return c > 0
		}
		if c := a.PotentialAmount.Cmp(b.PotentialAmount); c != 0 {
			return c > 0
		}
		if !a.earliest.Equal(b.earliest.Time) {
			return a.earliest.Before(b.earliest.Time)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return strings.Join(a.MemberInvoiceIDs, ",") < strings.Join(b.MemberInvoiceIDs, ",")
	})

	report := &Report{
		Findings:        kept,
		TotalGuaranteed: decimal.Zero,
		TotalPotential:  decimal.Zero,
		Breakdown:       make(map[constants.FindingKind]KindBreakdown, 4),
		InvoiceCount:    invoiceCount,
		VendorCount:     vendorCount,
	}
	for _, kind := range constants.AllFindingKinds() {
		report.Breakdown[kind] = KindBreakdown{TotalAmount: decimal.Zero}
	}

	for _, f := range kept {
		report.TotalGuaranteed = report.TotalGuaranteed.Add(f.GuaranteedAmount)
		report.TotalPotential = report.TotalPotential.Add(f.PotentialAmount)

		kb := report.Breakdown[f.Kind]
		kb.Count++
		if f.Status == constants.FindingStatusPending {
			kb.PendingCount++
		}
		kb.TotalAmount = kb.TotalAmount.Add(f.GuaranteedAmount).Add(f.PotentialAmount)
		report.Breakdown[f.Kind] = kb
	}

	return report
}

func anyClaimed(ids []string, claimed map[string]bool) bool {
	for _, id := range ids {
		if claimed[id] {
			return true
		}
	}
	return false
}
