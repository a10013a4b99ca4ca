package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// monthlySeries builds count monthly charges of one amount starting January
// 2025 on the given day of month.
func monthlySeries(idPrefix, vendor, amount string, day, count int) []invoice.Invoice {
	var invs []invoice.Invoice
	for i := 0; i < count; i++ {
		invs = append(invs, mkInv(
			fmt.Sprintf("%s%d", idPrefix, i), vendor, "", amount,
			2025, time.Month(int(time.January)+i), day))
	}
	return invs
}

func TestDetectSubscriptionSprawl(t *testing.T) {
	tol := DefaultTolerances()

	t.Run("two concurrent series flag once per vendor", func(t *testing.T) {
		invs := append(
			monthlySeries("a", "Slack", "14.99", 1, 4),
			monthlySeries("b", "Slack", "9.99", 15, 4)...,
		)
		group := singleGroup(t, invs)

		findings := detectSubscriptionSprawl(group, tol)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		f := findings[0]
		if f.Kind != constants.FindingSubscriptionSprawl {
			t.Errorf("kind = %v", f.Kind)
		}
		if !f.GuaranteedAmount.IsZero() {
			t.Errorf("guaranteed = %s, want 0 (sprawl is review-only)", f.GuaranteedAmount)
		}
		// The smaller series (4 x 9.99) is the consolidation candidate.
		if !f.PotentialAmount.Equal(decimal.RequireFromString("39.96")) {
			t.Errorf("potential = %s, want 39.96", f.PotentialAmount)
		}
		if len(f.MemberInvoiceIDs) != 8 {
			t.Errorf("members = %d, want 8", len(f.MemberInvoiceIDs))
		}
		if len(f.Evidence.Instances) != 2 {
			t.Fatalf("evidence instances = %d, want 2", len(f.Evidence.Instances))
		}
		if f.Evidence.Cadence != CadenceMonthly {
			t.Errorf("cadence = %v, want %v", f.Evidence.Cadence, CadenceMonthly)
		}
		for _, inst := range f.Evidence.Instances {
			if !inst.MonthlyEquivalent.Equal(inst.Amount) {
				t.Errorf("monthly equivalent of a monthly series = %s, want %s", inst.MonthlyEquivalent, inst.Amount)
			}
		}
	})

	t.Run("single series never flags", func(t *testing.T) {
		group := singleGroup(t, monthlySeries("a", "Netflix", "15.99", 5, 6))
		if findings := detectSubscriptionSprawl(group, tol); len(findings) != 0 {
			t.Fatalf("one subscription is not sprawl, got %d findings", len(findings))
		}
	})

	t.Run("irregular vendors never flag", func(t *testing.T) {
		group := singleGroup(t, []invoice.Invoice{
			mkInv("a", "Cloudflare", "", "20.00", 2025, time.January, 1),
			mkInv("b", "Cloudflare", "", "20.00", 2025, time.January, 20),
			mkInv("c", "Cloudflare", "", "35.00", 2025, time.February, 3),
			mkInv("d", "Cloudflare", "", "35.00", 2025, time.April, 28),
		})
		if findings := detectSubscriptionSprawl(group, tol); len(findings) != 0 {
			t.Fatalf("no recognized cadence means no sprawl, got %d findings", len(findings))
		}
	})

	t.Run("non-overlapping series are a plan change, not sprawl", func(t *testing.T) {
		// 9.99 series ends in April, 14.99 series starts in June.
		var invs []invoice.Invoice
		for i := 0; i < 4; i++ {
			invs = append(invs, mkInv(fmt.Sprintf("a%d", i), "Spotify", "", "9.99",
				2025, time.Month(int(time.January)+i), 5))
		}
		for i := 0; i < 4; i++ {
			invs = append(invs, mkInv(fmt.Sprintf("b%d", i), "Spotify", "", "14.99",
				2025, time.Month(int(time.June)+i), 5))
		}
		group := singleGroup(t, invs)
		if findings := detectSubscriptionSprawl(group, tol); len(findings) != 0 {
			t.Fatalf("sequential series must not flag, got %d findings", len(findings))
		}
	})

	t.Run("one-off amounts are not instances", func(t *testing.T) {
		invs := append(monthlySeries("a", "GitHub", "21.00", 1, 5),
			mkInv("x", "GitHub", "", "250.00", 2025, time.March, 10))
		group := singleGroup(t, invs)
		if findings := detectSubscriptionSprawl(group, tol); len(findings) != 0 {
			t.Fatalf("a single extra charge is not a concurrent subscription, got %d findings", len(findings))
		}
	})
}
