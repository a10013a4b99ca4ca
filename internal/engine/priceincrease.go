package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
)

var hundred = decimal.NewFromInt(100)

// detectPriceIncreases compares each charge against the vendor's most recent
// prior charge and flags fractional increases at or above the threshold. The
// comparison is exact decimal arithmetic: at the default 0.20 threshold a
// 19.99% increase does not flag and a 20.00% increase does.
//
// The delta is money the user now pays that they weren't paying before, so it
// counts as guaranteed waste going forward.
func detectPriceIncreases(group vendorGroup, threshold decimal.Decimal) []Finding {
	var findings []Finding
	invs := group.invoices // sorted by charge date
	for i := 1; i < len(invs); i++ {
		old, cur := invs[i-1], invs[i]
		if old.Currency != cur.Currency {
			continue
		}
		// Undefined percentage against a zero base.
		if old.Amount.Sign() == 0 {
			continue
		}
		delta := cur.Amount.Sub(old.Amount)
		if delta.Sign() <= 0 {
			continue
		}
		ratio := delta.Div(old.Amount)
		if ratio.Cmp(threshold) < 0 {
			continue
		}

		oldAmount, newAmount := old.Amount, cur.Amount
		pct := ratio.Mul(hundred).Round(1)

		f := newFinding(constants.FindingPriceIncrease, group, ConfidencePriceIncrease)
		f.Currency = cur.Currency
		f.GuaranteedAmount = delta
		f.Title = fmt.Sprintf("Price increase from %s", group.displayName)
		f.Description = fmt.Sprintf("Price increased from %s to %s (%s%% increase)", oldAmount, newAmount, pct)
		f.MemberInvoiceIDs = []string{old.ID, cur.ID}
		f.earliest = old.ChargeDate
		f.Evidence = Evidence{
			OldAmount:          &oldAmount,
			NewAmount:          &newAmount,
			OldDate:            old.ChargeDate.String(),
			NewDate:            cur.ChargeDate.String(),
			IncreasePercentage: &pct,
		}

		findings = append(findings, f)
	}
	return findings
}
