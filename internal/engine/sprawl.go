package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// sprawlInstance is one recurring charge series under a vendor, keyed by its
// per-charge amount.
type sprawlInstance struct {
	amount   decimal.Decimal
	currency string
	invoices []invoice.Invoice
	total    decimal.Decimal
	first    invoice.Date
	last     invoice.Date
}

// detectSubscriptionSprawl flags vendors that bill on a recognized cadence
// with two or more concurrently active charge series (distinct amounts under
// the same vendor key, overlapping date ranges) - e.g. two seats or plans of
// the same service paid in parallel.
//
// Sprawl is always an optimization suggestion, never loss already incurred:
// guaranteed stays zero and the potential amount is what was actually charged
// on the series beyond the largest one.
func detectSubscriptionSprawl(group vendorGroup, tol Tolerances) []Finding {
	instances := collectInstances(group)
	if len(instances) < 2 {
		return nil
	}

	// Two interleaved series hide each other's rhythm in the merged date
	// sequence, so the subscription test runs per series: the vendor counts
	// as a subscription when any series shows a recognized cadence.
	cadences := make([]Cadence, len(instances))
	vendorCadence := CadenceIrregular
	for i, inst := range instances {
		cadences[i] = ClassifyCadence(datesOf(inst.invoices), tol)
		if vendorCadence == CadenceIrregular && cadences[i] != CadenceIrregular {
			vendorCadence = cadences[i]
		}
	}
	if vendorCadence == CadenceIrregular {
		return nil
	}

	// The largest series by total charged is the one presumed intentional.
	primaryIdx := 0
	for i, inst := range instances {
		if inst.total.Cmp(instances[primaryIdx].total) > 0 {
			primaryIdx = i
		}
	}
	primary := instances[primaryIdx]
	if cadences[primaryIdx] != CadenceIrregular {
		vendorCadence = cadences[primaryIdx]
	}

	var extras []sprawlInstance
	for i, inst := range instances {
		if i == primaryIdx || inst.currency != primary.currency {
			continue
		}
		if overlaps(inst, primary) {
			extras = append(extras, inst)
		}
	}
	if len(extras) == 0 {
		return nil
	}

	f := newFinding(constants.FindingSubscriptionSprawl, group, ConfidenceSubscriptionSprawl)
	f.Currency = primary.currency
	f.Title = fmt.Sprintf("Multiple %s subscriptions", group.displayName)
	f.Description = fmt.Sprintf(
		"%d concurrent %s charge series detected - billing looks %s; consider consolidating",
		len(extras)+1, group.displayName, strings.ToLower(string(vendorCadence)))

	members := append([]invoice.Invoice{}, primary.invoices...)
	potential := decimal.Zero
	for _, inst := range extras {
		members = append(members, inst.invoices...)
		potential = potential.Add(inst.total)
	}
	f.PotentialAmount = potential

	sort.Slice(members, func(i, j int) bool {
		if !members[i].ChargeDate.Equal(members[j].ChargeDate.Time) {
			return members[i].ChargeDate.Before(members[j].ChargeDate.Time)
		}
		return members[i].ID < members[j].ID
	})
	for _, inv := range members {
		f.MemberInvoiceIDs = append(f.MemberInvoiceIDs, inv.ID)
	}
	f.earliest = members[0].ChargeDate

	evInstances := append([]sprawlInstance{primary}, extras...)
	f.Evidence = Evidence{Cadence: vendorCadence}
	for _, inst := range evInstances {
		cadence := ClassifyCadence(datesOf(inst.invoices), tol)
		if cadence == CadenceIrregular {
			cadence = vendorCadence
		}
		f.Evidence.Instances = append(f.Evidence.Instances, SprawlInstance{
			Amount:            inst.amount,
			Charges:           len(inst.invoices),
			FirstDate:         inst.first.String(),
			LastDate:          inst.last.String(),
			MonthlyEquivalent: MonthlyEquivalent(inst.amount, cadence),
		})
	}

	return []Finding{f}
}

// collectInstances groups a vendor's invoices into charge series by amount,
// keeping only series with at least two charges. Order is deterministic
// (first charge date of the series).
func collectInstances(group vendorGroup) []sprawlInstance {
	byAmount := make(map[string][]invoice.Invoice)
	var order []string
	for _, inv := range group.invoices {
		if inv.Amount.Sign() <= 0 {
			continue
		}
		key := amountKey(inv)
		if _, ok := byAmount[key]; !ok {
			order = append(order, key)
		}
		byAmount[key] = append(byAmount[key], inv)
	}

	var instances []sprawlInstance
	for _, key := range order {
		seq := byAmount[key]
		if len(seq) < 2 {
			continue
		}
		inst := sprawlInstance{
			amount:   seq[0].Amount,
			currency: seq[0].Currency,
			invoices: seq,
			first:    seq[0].ChargeDate,
			last:     seq[len(seq)-1].ChargeDate,
			total:    decimal.Zero,
		}
		for _, inv := range seq {
			inst.total = inst.total.Add(inv.Amount)
		}
		instances = append(instances, inst)
	}
	return instances
}

func overlaps(a, b sprawlInstance) bool {
	return !a.first.After(b.last.Time) && !b.first.After(a.last.Time)
}
