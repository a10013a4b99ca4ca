package engine

import (
	"github.com/shopspring/decimal"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/common"
)

// Tolerances holds the per-cadence day tolerance around each canonical period.
type Tolerances struct {
	Weekly    int `json:"weekly"`
	BiWeekly  int `json:"biweekly"`
	Monthly   int `json:"monthly"`
	Quarterly int `json:"quarterly"`
	Annual    int `json:"annual"`
}

// DefaultTolerances returns the stock tolerance bands: 7±2, 14±3, 30±5, 90±7, 365±14.
func DefaultTolerances() Tolerances {
	return Tolerances{Weekly: 2, BiWeekly: 3, Monthly: 5, Quarterly: 7, Annual: 14}
}

// Config holds the analysis tunables. Build one with DefaultConfig and adjust;
// New rejects invalid values before any analysis runs.
type Config struct {
	// ProbableDuplicateWindowDays is the inclusive day window within which two
	// same-amount charges become a probable-duplicate candidate.
	ProbableDuplicateWindowDays int

	// PriceIncreaseThreshold is the fractional increase that triggers a
	// price-increase finding. Compared exactly: 0.1999 does not flag at 0.20.
	PriceIncreaseThreshold decimal.Decimal

	// SubscriptionTolerances override the cadence recognition bands.
	SubscriptionTolerances Tolerances
}

// DefaultConfig returns the stock configuration: 2-day duplicate window, 20%
// price-increase threshold, default cadence tolerances.
func DefaultConfig() Config {
	return Config{
		ProbableDuplicateWindowDays: 2,
		PriceIncreaseThreshold:      decimal.RequireFromString("0.20"),
		SubscriptionTolerances:      DefaultTolerances(),
	}
}

var one = decimal.NewFromInt(1)

// Validate rejects out-of-range tunables at configuration-construction time.
func (c Config) Validate() error {
	if c.ProbableDuplicateWindowDays < 0 {
		return common.NewAppError("CONFIG_ERROR", "probable_duplicate_window_days must not be negative", common.ErrInvalidInput)
	}
	if c.PriceIncreaseThreshold.Sign() <= 0 || c.PriceIncreaseThreshold.Cmp(one) > 0 {
		return common.NewAppError("CONFIG_ERROR", "price_increase_threshold must be in (0, 1]", common.ErrInvalidInput)
	}
	for _, tol := range []int{
		c.SubscriptionTolerances.Weekly,
		c.SubscriptionTolerances.BiWeekly,
		c.SubscriptionTolerances.Monthly,
		c.SubscriptionTolerances.Quarterly,
		c.SubscriptionTolerances.Annual,
	} {
		if tol < 0 {
			return common.NewAppError("CONFIG_ERROR", "subscription tolerances must not be negative", common.ErrInvalidInput)
		}
	}
	return nil
}
