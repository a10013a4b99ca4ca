package invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is one normalized charge extracted upstream (email/PDF parsing).
// The engine treats it as immutable input.
type Invoice struct {
	ID            string          `json:"id"`
	VendorNameRaw string          `json:"vendor_name_raw"`
	VendorKey     string          `json:"vendor_key,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"` // empty when the source had none
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ChargeDate    Date            `json:"charge_date"`
	SourceRef     string          `json:"source_ref,omitempty"`
}

// GroupKey returns the vendor identity used for grouping: the pre-computed
// vendor_key when present, otherwise derived from the raw vendor name.
func (inv Invoice) GroupKey() string {
	if inv.VendorKey != "" {
		return inv.VendorKey
	}
	return NormalizeVendor(inv.VendorNameRaw)
}

// NormalizeVendor collapses vendor name variants into a single grouping key:
// lowercase, ASCII letters and digits only. "D.O. Inc" and "do inc" normalize
// identically; genuinely different names (e.g. an alias like "AWS" for
// "Amazon Web Services") are not merged here.
func NormalizeVendor(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// Date is a calendar date (no time-of-day), serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// String renders the date as YYYY-MM-DD, empty when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// DaysUntil returns the whole-day gap between d and later (negative when
// later precedes d). Both dates are compared at midnight UTC.
func (d Date) DaysUntil(later Date) int {
	a := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(later.Year(), later.Month(), later.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
