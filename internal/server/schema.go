package server

import (
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/invoice"
)

// buildAnalyzeRequestSchema returns the JSON-Schema for the analyze request
// body. Payloads are validated against it before decoding so malformed input
// is rejected with a structured message instead of a decode panic.
func buildAnalyzeRequestSchema() map[string]any {
	datePattern := map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}

	window := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"start_date": datePattern,
			"end_date":   datePattern,
		},
	}

	tolerances := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"weekly":    nonNegativeInt(),
			"biweekly":  nonNegativeInt(),
			"monthly":   nonNegativeInt(),
			"quarterly": nonNegativeInt(),
			"annual":    nonNegativeInt(),
		},
	}

	options := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"probable_duplicate_window_days": nonNegativeInt(),
			"price_increase_threshold": map[string]any{
				"type":    "string",
				"pattern": `^(0\.\d{1,4}|1(\.0{1,4})?)$`, // fraction in (0, 1]
			},
			"subscription_tolerances": tolerances,
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoices": map[string]any{
				"type":  "array",
				"items": invoice.BuildInvoiceJSONSchema(),
			},
			"window":  window,
			"options": options,
		},
		"required": []string{"invoices"},
	}
}

func nonNegativeInt() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0}
}
