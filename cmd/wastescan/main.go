package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/engine"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/export"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type batchFile struct {
	Invoices []invoice.Invoice `json:"invoices"`
}

func main() {
	// Parse CLI flags
	var (
		in         = flag.String("in", "", "invoice batch JSON file (required)")
		out        = flag.String("out", "", "output XLSX file path (optional)")
		fromStr    = flag.String("from", "", "analysis window start YYYY-MM-DD")
		toStr      = flag.String("to", "", "analysis window end YYYY-MM-DD")
		windowDays = flag.Int("window-days", 2, "probable-duplicate day window")
		threshold  = flag.String("threshold", "0.20", "price-increase threshold (fraction)")
	)
	flag.Parse()

	if *in == "" {
		printError("Error: --in is required\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		printError("Error: reading %s: %v\n", *in, err)
		os.Exit(1)
	}

	schema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoices": map[string]any{
				"type":  "array",
				"items": invoice.BuildInvoiceJSONSchema(),
			},
		},
		"required": []string{"invoices"},
	}
	if err := invoice.ValidateJSONAgainstSchema(schema, data); err != nil {
		printError("Error: invalid batch file: %v\n", err)
		os.Exit(1)
	}

	var batch batchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		printError("Error: decoding %s: %v\n", *in, err)
		os.Exit(1)
	}

	cfg := engine.DefaultConfig()
	cfg.ProbableDuplicateWindowDays = *windowDays
	if cfg.PriceIncreaseThreshold, err = decimal.NewFromString(*threshold); err != nil {
		printError("Error: invalid --threshold: %v\n", err)
		os.Exit(1)
	}

	window, err := parseWindow(*fromStr, *toStr)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	eng, err := engine.New(cfg, zap.NewNop())
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	report, err := eng.Analyze(context.Background(), engine.Request{Invoices: batch.Invoices, Window: window})
	if err != nil {
		printError("Error: analysis failed: %v\n", err)
		os.Exit(1)
	}

	printReport(report)

	if *out != "" {
		exporter := export.NewService(zap.NewNop())
		xlsx, err := exporter.WriteReportXLSX(report)
		if err != nil {
			printError("Error: exporting report: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
			printError("Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %s\n", *out)
	}
}

func parseWindow(fromStr, toStr string) (*engine.Window, error) {
	if fromStr == "" && toStr == "" {
		return nil, nil
	}
	var w engine.Window
	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date format, use YYYY-MM-DD: %w", err)
		}
		w.Start = invoice.Date{Time: t}
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date format, use YYYY-MM-DD: %w", err)
		}
		w.End = invoice.Date{Time: t}
	}
	return &w, nil
}

func printReport(report *engine.Report) {
	fmt.Printf("Analyzed %d invoices across %d vendors\n\n", report.InvoiceCount, report.VendorCount)
	fmt.Printf("Guaranteed waste: %s\n", report.TotalGuaranteed)
	fmt.Printf("Potential waste:  %s\n\n", report.TotalPotential)

	for _, kind := range constants.AllFindingKinds() {
		kb := report.Breakdown[kind]
		if kb.Count == 0 {
			continue
		}
		fmt.Printf("  %-20s count=%d pending=%d total=%s\n", kind, kb.Count, kb.PendingCount, kb.TotalAmount)
	}

	if len(report.Findings) > 0 {
		fmt.Println()
	}
	for _, f := range report.Findings {
		fmt.Printf("- [%s] %s (confidence %.2f)\n    %s\n", f.Kind, f.Title, f.Confidence, f.Description)
	}
}
