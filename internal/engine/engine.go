package engine

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// Engine runs the waste-detection analysis for one account's invoice set.
// It is stateless: every Analyze call is a pure computation over its input,
// so one Engine may serve many accounts concurrently.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// New validates the configuration and builds an engine. A nil logger is
// replaced with a no-op logger.
func New(cfg Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Window bounds the invoice set for one run, inclusive on both ends.
type Window struct {
	Start invoice.Date `json:"start_date"`
	End   invoice.Date `json:"end_date"`
}

func (w Window) contains(d invoice.Date) bool {
	if !w.Start.IsZero() && d.Before(w.Start.Time) {
		return false
	}
	if !w.End.IsZero() && d.After(w.End.Time) {
		return false
	}
	return true
}

// Request is one account's invoice set plus the optional analysis window.
type Request struct {
	Invoices []invoice.Invoice
	Window   *Window
}

// vendorGroup is the per-vendor slice of invoices every detector operates on.
// Invoices are sorted by charge date, then id, so detector output is
// deterministic for any input ordering.
type vendorGroup struct {
	key         string
	displayName string
	invoices    []invoice.Invoice
}

func (g vendorGroup) dates() []invoice.Date {
	return datesOf(g.invoices)
}

func datesOf(invs []invoice.Invoice) []invoice.Date {
	dates := make([]invoice.Date, len(invs))
	for i, inv := range invs {
		dates[i] = inv.ChargeDate
	}
	return dates
}

// Analyze validates the batch, groups invoices by vendor, runs the detectors
// over each group on worker goroutines, and aggregates the findings. The run
// is all-or-nothing: on cancellation partial results are discarded, since an
// incomplete finding set would understate waste.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()

	if err := invoice.ValidateBatch(req.Invoices); err != nil {
		return nil, err
	}

	invs := req.Invoices
	if req.Window != nil {
		scoped := make([]invoice.Invoice, 0, len(invs))
		for _, inv := range invs {
			if req.Window.contains(inv.ChargeDate) {
				scoped = append(scoped, inv)
			}
		}
		invs = scoped
	}

	groups := groupByVendor(invs)

	// Vendor groups are independent; fan them out across workers. Each
	// worker writes into its own result slots, so the only synchronization
	// needed is the final wait.
	results := make([][]Finding, len(groups))
	jobs := make(chan int)
	workers := min(len(groups), runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				results[idx] = e.analyzeGroup(groups[idx])
			}
		}()
	}
feed:
	for idx := range groups {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var findings []Finding
	for _, groupFindings := range results {
		findings = append(findings, groupFindings...)
	}

	report := aggregate(findings, len(invs), len(groups))
	e.logger.Info("analysis complete",
		zap.Int("invoices", len(invs)),
		zap.Int("vendors", len(groups)),
		zap.Int("findings", len(report.Findings)),
		zap.String("total_guaranteed", report.TotalGuaranteed.String()),
		zap.String("total_potential", report.TotalPotential.String()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (e *Engine) analyzeGroup(group vendorGroup) []Finding {
	exact, claimed := detectExactDuplicates(group)
	findings := exact
	findings = append(findings, detectProbableDuplicates(group, claimed, e.cfg)...)
	findings = append(findings, detectPriceIncreases(group, e.cfg.PriceIncreaseThreshold)...)
	findings = append(findings, detectSubscriptionSprawl(group, e.cfg.SubscriptionTolerances)...)
	return findings
}

func groupByVendor(invs []invoice.Invoice) []vendorGroup {
	byKey := make(map[string][]invoice.Invoice)
	for _, inv := range invs {
		key := inv.GroupKey()
		byKey[key] = append(byKey[key], inv)
	}

	groups := make([]vendorGroup, 0, len(byKey))
	for key, members := range byKey {
		sort.Slice(members, func(i, j int) bool {
			if !members[i].ChargeDate.Equal(members[j].ChargeDate.Time) {
				return members[i].ChargeDate.Before(members[j].ChargeDate.Time)
			}
			return members[i].ID < members[j].ID
		})
		display := members[0].VendorNameRaw
		if display == "" {
			display = key
		}
		groups = append(groups, vendorGroup{key: key, displayName: display, invoices: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return groups
}
