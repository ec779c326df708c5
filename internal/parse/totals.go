package parse

import (
	"regexp"
	"strings"

	"github.com/apdesk/invoicelines/internal/invoice"
)

var (
	// currency is free text ("Singapore Dollar"); stop before the next
	// summary label so it is not swallowed into the capture
	reCurrency   = regexp.MustCompile(`(?i)Currency\s*:\s*([A-Za-z]+(?:\s[A-Za-z]+)*?)(?:\s(?:Sub|Total|Freight)\b|$)`)
	reSubTotal   = regexp.MustCompile(`(?i)Sub\s*Total\s*\(Excluding\s*GST\)\s*:\s*(\d[\d,]*\.\d{2})`)
	reTotalGST   = regexp.MustCompile(`(?i)Total\s*GST\s*Payable\s*:\s*(\d[\d,]*\.\d{2})`)
	reFreight    = regexp.MustCompile(`(?i)Freight\s*Amount\s*:\s*(\d[\d,]*\.\d{2})`)
	reGrandTotal = regexp.MustCompile(`(?i)Total\s*Invoice\s*Amount\s*:\s*(\d[\d,]*\.\d{2})`)
)

// ExtractTotals matches the labelled invoice summary amounts. Amounts keep
// their raw string form, thousands separators included.
func ExtractTotals(text string) invoice.Totals {
	var t invoice.Totals
	if m := reCurrency.FindStringSubmatch(text); m != nil {
		t.Currency = strings.TrimSpace(m[1])
	}
	if m := reSubTotal.FindStringSubmatch(text); m != nil {
		t.Subtotal = m[1]
	}
	if m := reTotalGST.FindStringSubmatch(text); m != nil {
		t.Tax = m[1]
	}
	if m := reFreight.FindStringSubmatch(text); m != nil {
		t.Freight = m[1]
	}
	if m := reGrandTotal.FindStringSubmatch(text); m != nil {
		t.GrandTotal = m[1]
	}
	return t
}
