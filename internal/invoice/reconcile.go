package invoice

import "github.com/apdesk/invoicelines/internal/common"

// DefaultCurrency fills a totals block whose currency was never read from
// text. Business default for the source documents; any currency captured from
// text always wins.
const DefaultCurrency = "Singapore Dollar"

// Reconcile fills the missing totals of inv from its line items. Fields read
// from text are left untouched; only true gaps are computed. Called once per
// invoice after all chunks have been processed, and only when the totals are
// incomplete for the active layout.
func Reconcile(inv *Invoice, layout Layout) {
	if layout.Complete(inv.Totals) {
		return
	}

	var subtotal, tax, grand float64
	for _, li := range inv.Items {
		ex, exOK := common.ToNumber(li.GrossEx)
		inc, incOK := common.ToNumber(li.GrossInc)
		if exOK {
			subtotal += ex
		}
		if layout.HasLineTax() {
			if amt, ok := common.ToNumber(li.TaxAmount); ok {
				tax += amt
			}
			if incOK {
				grand += inc
			}
		} else if exOK && incOK && inc >= ex {
			// guard against malformed captures where inc < ex
			tax += inc - ex
		}
	}

	t := &inv.Totals
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.Subtotal == "" {
		t.Subtotal = common.FormatAmount(subtotal)
	}
	if t.Tax == "" {
		t.Tax = common.FormatAmount(tax)
	}
	if !layout.HasLineTax() {
		return
	}
	if t.Freight == "" {
		t.Freight = "0.00"
	}
	if t.GrandTotal == "" {
		if grand > 0 {
			t.GrandTotal = common.FormatAmount(grand)
		} else {
			sub, _ := common.ToNumber(t.Subtotal)
			gst, _ := common.ToNumber(t.Tax)
			fr, _ := common.ToNumber(t.Freight)
			t.GrandTotal = common.FormatAmount(sub + gst + fr)
		}
	}
}
