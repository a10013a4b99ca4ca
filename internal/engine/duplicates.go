package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// detectExactDuplicates finds charges that are provably the same billing event
// repeated: same invoice number, amount and currency under one vendor. Date
// proximity is irrelevant here; an identical invoice number billed twice a
// year apart signals a billing-system error, not a subscription.
//
// Returns the findings plus the set of invoice ids they claim; claimed
// invoices are excluded from probable-duplicate consideration.
func detectExactDuplicates(group vendorGroup) ([]Finding, map[string]bool) {
	byTriple := make(map[string][]invoice.Invoice)
	var order []string
	for _, inv := range group.invoices {
		if strings.TrimSpace(inv.InvoiceNumber) == "" {
			continue
		}
		key := inv.InvoiceNumber + "|" + amountKey(inv)
		if _, ok := byTriple[key]; !ok {
			order = append(order, key)
		}
		byTriple[key] = append(byTriple[key], inv)
	}

	var findings []Finding
	claimed := make(map[string]bool)
	for _, key := range order {
		dupes := byTriple[key]
		if len(dupes) < 2 {
			continue
		}

		amount := dupes[0].Amount
		f := newFinding(constants.FindingExactDuplicate, group, ConfidenceExactDuplicate)
		f.Currency = dupes[0].Currency
		// N identical charges mean N-1 of them are waste.
		f.GuaranteedAmount = amount.Mul(decimal.NewFromInt(int64(len(dupes) - 1)))
		f.Title = duplicateTitle(group.displayName)
		f.Description = fmt.Sprintf("Invoice %s charged %d times (exact match)", dupes[0].InvoiceNumber, len(dupes))
		f.earliest = dupes[0].ChargeDate

		f.Evidence = Evidence{
			InvoiceNumber: dupes[0].InvoiceNumber,
			ChargeAmount:  &amount,
			ChargedTimes:  len(dupes),
		}
		for _, inv := range dupes {
			f.MemberInvoiceIDs = append(f.MemberInvoiceIDs, inv.ID)
			f.Evidence.ChargeDates = append(f.Evidence.ChargeDates, inv.ChargeDate.String())
			claimed[inv.ID] = true
		}

		findings = append(findings, f)
	}
	return findings, claimed
}

// detectProbableDuplicates flags same-amount charges that landed within the
// configured day window of each other, when the vendor shows no recognizable
// billing cadence. Subscriptions billed every 7/14/30/90/365 days must never
// surface as duplicate noise, so one classifier pass over the vendor's full
// date sequence suppresses the whole group.
//
// These findings are review-only: guaranteed stays zero, the later charge's
// amount is reported as potential waste.
func detectProbableDuplicates(group vendorGroup, claimed map[string]bool, cfg Config) []Finding {
	if ClassifyCadence(group.dates(), cfg.SubscriptionTolerances) != CadenceIrregular {
		return nil
	}

	byAmount := make(map[string][]invoice.Invoice)
	var order []string
	for _, inv := range group.invoices {
		if claimed[inv.ID] || inv.Amount.Sign() <= 0 {
			continue
		}
		key := amountKey(inv)
		if _, ok := byAmount[key]; !ok {
			order = append(order, key)
		}
		byAmount[key] = append(byAmount[key], inv)
	}

	var findings []Finding
	for _, key := range order {
		seq := byAmount[key] // already sorted by charge date
		for i := 1; i < len(seq); i++ {
			prev, cur := seq[i-1], seq[i]
			gap := prev.ChargeDate.DaysUntil(cur.ChargeDate)
			if gap > cfg.ProbableDuplicateWindowDays {
				continue
			}

			amount := cur.Amount
			f := newFinding(constants.FindingProbableDuplicate, group, ConfidenceProbableDuplicate)
			f.Currency = cur.Currency
			f.PotentialAmount = amount
			f.Title = duplicateTitle(group.displayName)
			f.Description = fmt.Sprintf(
				"Same %s %s amount charged on %s and %s (%d days apart) - verify this is not a duplicate",
				amount, cur.Currency, prev.ChargeDate, cur.ChargeDate, gap)
			f.MemberInvoiceIDs = []string{prev.ID, cur.ID}
			f.earliest = prev.ChargeDate

			gapDays := gap
			f.Evidence = Evidence{
				ChargeAmount: &amount,
				ChargedTimes: 2,
				ChargeDates:  []string{prev.ChargeDate.String(), cur.ChargeDate.String()},
				GapDays:      &gapDays,
			}

			findings = append(findings, f)
		}
	}
	return findings
}

// amountKey is the map key for grouping by monetary value: normalized scale
// so "99.99" and "99.990" group together, plus the currency.
func amountKey(inv invoice.Invoice) string {
	return inv.Amount.StringFixed(4) + "|" + inv.Currency
}
