package invoice

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) for one
// invoice record, as a generic map. Transport layers embed it into their
// request schemas and validate payloads locally before decoding.
//
// invoice_number must be absent when unknown, never a placeholder string;
// placeholder collisions would create spurious exact-duplicate matches.
func BuildInvoiceJSONSchema() map[string]any {
	props := map[string]any{
		"id":              map[string]any{"type": "string", "minLength": 1},
		"vendor_name_raw": map[string]any{"type": "string"},
		"vendor_key":      map[string]any{"type": "string", "pattern": `^[a-z0-9]*$`},
		"invoice_number":  map[string]any{"type": "string", "minLength": 1},
		"amount":          decimalProp(),
		"currency":        map[string]any{"type": "string", "pattern": `^[A-Z]{3}$`},
		"charge_date":     map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"source_ref":      map[string]any{"type": "string"},
	}
	required := []string{"id", "amount", "currency", "charge_date"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+(\.\d{1,2})?$`, // amounts are non-negative
	}
}
