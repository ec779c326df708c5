package export

import (
	"strings"

	"github.com/apdesk/invoicelines/internal/common"
	"github.com/apdesk/invoicelines/internal/invoice"
)

// Options controls row projection.
type Options struct {
	Layout invoice.Layout

	// ExcludeDraft drops invoices whose status is "draft" (case-insensitive).
	ExcludeDraft bool

	// NormalizeCurrencyTo, when set, rewrites every row's currency to this
	// code (e.g. "SGD" for "Singapore Dollar").
	NormalizeCurrencyTo string
}

const draftStatus = "draft"

var headersStandard = []string{
	"Vendor ID", "Attention To", "Invoice Date", "Credit Term", "Invoice No", "Related Invoice No",
	"Invoice Status", "Invoicing Instruction ID", "Description", // header block
	"No.", "Description", // line number + line description
	"Quantity", "Unit Price", "Gross Amt (EX. GST)", "GST @ 9%", "Gross Amt (inc. GST)",
	"Currency", "Sub Total (Excluding GST)", "Total GST Payable",
}

var headersTaxed = []string{
	"Vendor ID", "Attention To", "Invoice Date", "Credit Term", "Invoice No", "Related Invoice No",
	"Invoice Status", "Invoicing Instruction ID", "Description",
	"No.", "Description",
	"Quantity", "Unit Price", "Gross Amt (EX. GST)", "GST Amount", "Gross Amt (inc. GST)",
	"Currency", "Sub Total (Excluding GST)", "Total GST Payable", "Freight Amount", "Total Invoice Amount",
}

// Headers returns the fixed column-header sequence for the layout variant
// (19 or 21 columns).
func Headers(layout invoice.Layout) []string {
	if layout == invoice.LayoutTaxed {
		return headersTaxed
	}
	return headersStandard
}

// Project flattens each surviving invoice into one row per line item: the
// repeated header fields, the item's own fields, then the repeated totals.
// Invoices with zero line items contribute zero rows and silently drop out.
func Project(invs []*invoice.Invoice, opts Options) [][]any {
	var rows [][]any
	for _, inv := range invs {
		if opts.ExcludeDraft && strings.EqualFold(inv.Header.InvoiceStatus, draftStatus) {
			continue
		}

		currency := inv.Totals.Currency
		if opts.NormalizeCurrencyTo != "" && currency != "" {
			currency = opts.NormalizeCurrencyTo
		}

		for _, li := range inv.Items {
			row := make([]any, 0, len(Headers(opts.Layout)))
			h := inv.Header
			row = append(row,
				h.VendorID,
				h.AttentionTo,
				dateCell(h.InvoiceDate),
				h.CreditTerm,
				h.InvoiceNo,
				h.RelatedInvoiceNo,
				h.InvoiceStatus,
				h.InstructionID,
				h.HeaderDescription,
			)

			row = append(row,
				li.LineNo,
				li.Description,
				numberCell(li.Quantity),
				numberCell(li.UnitPrice),
				numberCell(li.GrossEx),
			)
			if opts.Layout.HasLineTax() {
				row = append(row, numberCell(li.TaxAmount))
			} else {
				row = append(row, resolveRate(li, inv))
			}
			row = append(row, numberCell(li.GrossInc))

			row = append(row,
				currency,
				numberCell(inv.Totals.Subtotal),
				numberCell(inv.Totals.Tax),
			)
			if opts.Layout.HasLineTax() {
				row = append(row,
					numberCell(inv.Totals.Freight),
					numberCell(inv.Totals.GrandTotal),
				)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// resolveRate fills the rate column: item-level derived rate first, then the
// invoice-level fallback, then zero.
func resolveRate(li invoice.LineItem, inv *invoice.Invoice) float64 {
	if li.TaxRate != nil {
		return *li.TaxRate
	}
	if inv.GSTRate != nil {
		return *inv.GSTRate
	}
	return 0
}

// numberCell coerces a raw amount to a number, failing soft to a blank cell.
func numberCell(s string) any {
	if s == "" {
		return ""
	}
	n, ok := common.ToNumber(s)
	if !ok {
		return ""
	}
	return n
}

// dateCell converts a d/m/y string to a date value when parseable;
// unparseable dates pass through as the original string.
func dateCell(s string) any {
	if s == "" {
		return ""
	}
	if t, ok := common.ParseDMY(s); ok {
		return t
	}
	return s
}
