package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// Fixed per-kind confidence levels. The method is symbolic, not statistical:
// a kind always carries the same confidence.
const (
	ConfidenceExactDuplicate     = 0.98
	ConfidenceProbableDuplicate  = 0.50
	ConfidencePriceIncrease      = 0.90
	ConfidenceSubscriptionSprawl = 0.60
)

// Finding is one detected waste item for user review.
type Finding struct {
	ID          string                  `json:"id"`
	Kind        constants.FindingKind   `json:"kind"`
	Status      constants.FindingStatus `json:"status"`
	VendorKey   string                  `json:"vendor_key"`
	VendorName  string                  `json:"vendor_name"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Confidence  float64                 `json:"confidence"`

	// GuaranteedAmount counts toward the headline waste total.
	// PotentialAmount is shown as possible waste, pending review.
	GuaranteedAmount decimal.Decimal `json:"guaranteed_amount"`
	PotentialAmount  decimal.Decimal `json:"potential_amount"`
	Currency         string          `json:"currency"`

	MemberInvoiceIDs []string `json:"member_invoice_ids"`
	Evidence         Evidence `json:"evidence"`

	// earliest member charge date, used as a presentation tie-break.
	earliest invoice.Date
}

// Evidence is a small structured payload sufficient for a human reviewer to
// verify the finding without re-deriving it. Fields are populated per kind.
type Evidence struct {
	InvoiceNumber string           `json:"invoice_number,omitempty"`
	ChargeAmount  *decimal.Decimal `json:"charge_amount,omitempty"`
	ChargedTimes  int              `json:"charged_times,omitempty"`
	ChargeDates   []string         `json:"charge_dates,omitempty"`
	GapDays       *int             `json:"gap_days,omitempty"`

	OldAmount          *decimal.Decimal `json:"old_amount,omitempty"`
	NewAmount          *decimal.Decimal `json:"new_amount,omitempty"`
	OldDate            string           `json:"old_date,omitempty"`
	NewDate            string           `json:"new_date,omitempty"`
	IncreasePercentage *decimal.Decimal `json:"increase_percentage,omitempty"`

	Cadence   Cadence          `json:"cadence,omitempty"`
	Instances []SprawlInstance `json:"instances,omitempty"`
}

// SprawlInstance is one concurrently active subscription under a vendor.
type SprawlInstance struct {
	Amount            decimal.Decimal `json:"amount"`
	Charges           int             `json:"charges"`
	FirstDate         string          `json:"first_date"`
	LastDate          string          `json:"last_date"`
	MonthlyEquivalent decimal.Decimal `json:"monthly_equivalent"`
}

// KindBreakdown summarizes findings of one kind for presentation.
type KindBreakdown struct {
	Count        int             `json:"count"`
	PendingCount int             `json:"pending_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// Report is the complete output of one analysis run.
type Report struct {
	Findings []Finding `json:"findings"`

	// TotalGuaranteed sums guaranteed waste; TotalPotential sums review-only
	// amounts. A single invoice pair never contributes to both.
	TotalGuaranteed decimal.Decimal `json:"total_guaranteed"`
	TotalPotential  decimal.Decimal `json:"total_potential"`

	Breakdown map[constants.FindingKind]KindBreakdown `json:"breakdown"`

	InvoiceCount int `json:"invoice_count"`
	VendorCount  int `json:"vendor_count"`
}

func newFinding(kind constants.FindingKind, group vendorGroup, confidence float64) Finding {
	return Finding{
		ID:               uuid.NewString(),
		Kind:             kind,
		Status:           constants.FindingStatusPending,
		VendorKey:        group.key,
		VendorName:       group.displayName,
		Confidence:       confidence,
		GuaranteedAmount: decimal.Zero,
		PotentialAmount:  decimal.Zero,
	}
}

func duplicateTitle(vendor string) string {
	return fmt.Sprintf("Duplicate charge from %s", vendor)
}
