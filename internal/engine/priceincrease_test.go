package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

func TestDetectPriceIncreases(t *testing.T) {
	threshold := decimal.RequireFromString("0.20")

	t.Run("flags an increase above threshold", func(t *testing.T) {
		group := singleGroup(t, []invoice.Invoice{
			mkInv("a", "Zoom", "", "149.00", 2025, time.March, 1),
			mkInv("b", "Zoom", "", "199.00", 2025, time.April, 1),
		})

		findings := detectPriceIncreases(group, threshold)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		f := findings[0]
		if !f.GuaranteedAmount.Equal(decimal.RequireFromString("50.00")) {
			t.Errorf("guaranteed = %s, want 50.00", f.GuaranteedAmount)
		}
		if f.Confidence != ConfidencePriceIncrease {
			t.Errorf("confidence = %v, want %v", f.Confidence, ConfidencePriceIncrease)
		}
		if f.Evidence.IncreasePercentage == nil || !f.Evidence.IncreasePercentage.Equal(decimal.RequireFromString("33.6")) {
			t.Errorf("increase percentage = %v, want 33.6", f.Evidence.IncreasePercentage)
		}
		if f.Evidence.OldDate != "2025-03-01" || f.Evidence.NewDate != "2025-04-01" {
			t.Errorf("evidence dates = %s / %s", f.Evidence.OldDate, f.Evidence.NewDate)
		}
	})

	t.Run("boundary is exact", func(t *testing.T) {
		tests := []struct {
			name string
			old  string
			new  string
			want int
		}{
			{"exactly 20.00 percent flags", "100.00", "120.00", 1},
			{"19.99 percent does not flag", "100.00", "119.99", 0},
			{"20.01 percent flags", "100.00", "120.01", 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				group := singleGroup(t, []invoice.Invoice{
					mkInv("a", "Slack", "", tt.old, 2025, time.January, 1),
					mkInv("b", "Slack", "", tt.new, 2025, time.February, 1),
				})
				if findings := detectPriceIncreases(group, threshold); len(findings) != tt.want {
					t.Errorf("got %d findings, want %d", len(findings), tt.want)
				}
			})
		}
	})

	t.Run("compares consecutive pairs, not the group average", func(t *testing.T) {
		// 100 -> 130 flags; 130 -> 140 is under 20% and must not flag even
		// though 140 is 40% over the first charge.
		group := singleGroup(t, []invoice.Invoice{
			mkInv("a", "Notion", "", "100.00", 2025, time.January, 1),
			mkInv("b", "Notion", "", "130.00", 2025, time.February, 1),
			mkInv("c", "Notion", "", "140.00", 2025, time.March, 1),
		})
		findings := detectPriceIncreases(group, threshold)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		if got := findings[0].MemberInvoiceIDs; len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("members = %v, want [a b]", got)
		}
	})

	t.Run("zero base amount is skipped", func(t *testing.T) {
		group := singleGroup(t, []invoice.Invoice{
			mkInv("a", "Trial", "", "0.00", 2025, time.January, 1),
			mkInv("b", "Trial", "", "49.00", 2025, time.February, 1),
		})
		if findings := detectPriceIncreases(group, threshold); len(findings) != 0 {
			t.Fatalf("zero base must skip comparison, got %d findings", len(findings))
		}
	})

	t.Run("decreases never flag", func(t *testing.T) {
		group := singleGroup(t, []invoice.Invoice{
			mkInv("a", "Adobe", "", "60.00", 2025, time.January, 1),
			mkInv("b", "Adobe", "", "30.00", 2025, time.February, 1),
		})
		if findings := detectPriceIncreases(group, threshold); len(findings) != 0 {
			t.Fatalf("price drop must not flag, got %d findings", len(findings))
		}
	})
}
