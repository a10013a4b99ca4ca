package invoice

import (
	"fmt"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/common"
)

// InvalidInvoiceDataError names the first malformed record in a batch. The
// whole batch is rejected; silently skipping bad records could hide true waste.
type InvalidInvoiceDataError struct {
	InvoiceID string
	Field     string
	Reason    string
}

func (e *InvalidInvoiceDataError) Error() string {
	return fmt.Sprintf("invalid invoice data: invoice %q field %q: %s", e.InvoiceID, e.Field, e.Reason)
}

// ValidateBatch checks that every invoice is well-formed before analysis.
// It fails fast on the first offending record.
func ValidateBatch(invoices []Invoice) error {
	for i, inv := range invoices {
		if err := validateInvoice(inv); err != nil {
			if err.InvoiceID == "" {
				err.InvoiceID = fmt.Sprintf("index %d", i)
			}
			return err
		}
	}
	return nil
}

func validateInvoice(inv Invoice) *InvalidInvoiceDataError {
	if err := common.Required("id", inv.ID); err != nil {
		return &InvalidInvoiceDataError{Field: "id", Reason: err.Message}
	}
	if inv.VendorKey == "" && NormalizeVendor(inv.VendorNameRaw) == "" {
		return &InvalidInvoiceDataError{
			InvoiceID: inv.ID,
			Field:     "vendor_key",
			Reason:    "missing vendor_key and no usable vendor_name_raw",
		}
	}
	if inv.Amount.IsNegative() {
		return &InvalidInvoiceDataError{
			InvoiceID: inv.ID,
			Field:     "amount",
			Reason:    fmt.Sprintf("must not be negative, got %s", inv.Amount),
		}
	}
	if err := common.CurrencyCode("currency", inv.Currency); err != nil {
		return &InvalidInvoiceDataError{InvoiceID: inv.ID, Field: "currency", Reason: err.Message}
	}
	if inv.ChargeDate.IsZero() {
		return &InvalidInvoiceDataError{InvoiceID: inv.ID, Field: "charge_date", Reason: "is required"}
	}
	return nil
}
