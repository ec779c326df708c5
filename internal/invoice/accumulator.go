package invoice

// Accumulator builds one Invoice per invoice number as the pipeline feeds it
// chunks of normalized text, in order. It owns the sticky invoice context: a
// chunk without its own invoice number is attributed to the most recently
// seen one, and chunks arriving before any number are skipped outright.
//
// The accumulator is local to a single pipeline run and is not safe for
// concurrent use; the run is strictly sequential by design.
type Accumulator struct {
	byNo    map[string]*Invoice
	order   []string
	current string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{byNo: make(map[string]*Invoice)}
}

// Resolve returns the invoice the chunk belongs to, applying the sticky
// context rule. invoiceNo is the number detected in the chunk itself, or ""
// when the chunk had none. Returns nil when no invoice number has ever been
// seen, meaning the chunk must be skipped.
func (a *Accumulator) Resolve(invoiceNo string) *Invoice {
	if invoiceNo != "" {
		a.current = invoiceNo
	}
	if a.current == "" {
		return nil
	}
	inv, ok := a.byNo[a.current]
	if !ok {
		inv = &Invoice{Header: Header{InvoiceNo: a.current}}
		a.byNo[a.current] = inv
		a.order = append(a.order, a.current)
	}
	return inv
}

// Apply merges one chunk's captures into the resolved invoice. Header and
// totals merge first-writer-wins, items append in extraction order, and the
// fallback tax rate is recorded only once. Returns false when the chunk was
// skipped for lack of an invoice context.
func (a *Accumulator) Apply(invoiceNo string, header Header, items []LineItem, totals Totals, gstRate *float64) bool {
	inv := a.Resolve(invoiceNo)
	if inv == nil {
		return false
	}
	inv.Header.MergeHeader(header)
	inv.Items = append(inv.Items, items...)
	inv.Totals.MergeTotals(totals)
	if gstRate != nil && inv.GSTRate == nil {
		inv.GSTRate = gstRate
	}
	return true
}

// Invoices returns the accumulated invoices in first-seen order.
func (a *Accumulator) Invoices() []*Invoice {
	out := make([]*Invoice, 0, len(a.order))
	for _, no := range a.order {
		out = append(out, a.byNo[no])
	}
	return out
}
