package invoice

// Header carries the invoice-level labelled fields. All fields are optional
// raw strings; a field is "set" once it holds any non-empty value and is never
// overwritten afterwards (first writer wins across pages).
type Header struct {
	VendorID          string
	AttentionTo       string
	InvoiceDate       string // raw d/m/y form, converted at projection time
	CreditTerm        string
	InvoiceNo         string
	RelatedInvoiceNo  string
	InvoiceStatus     string
	InstructionID     string
	HeaderDescription string
}

// LineItem is one extracted invoice line. Numeric fields stay raw strings
// (thousands separators preserved) until projection.
type LineItem struct {
	LineNo      int
	Description string
	Quantity    string
	UnitPrice   string
	GrossEx     string // gross amount excluding tax
	TaxAmount   string // only present in some layout variants
	GrossInc    string // gross amount including tax
	TaxRate     *float64
}

// Totals carries the invoice-level summary block. Same set-once semantics as
// Header; values read from text always beat computed ones.
type Totals struct {
	Currency   string
	Subtotal   string
	Tax        string
	Freight    string
	GrandTotal string
}

// Invoice is the aggregate accumulated across all pages or text segments that
// mention the same invoice number.
type Invoice struct {
	Header  Header
	Items   []LineItem
	Totals  Totals
	GSTRate *float64 // invoice-level fallback when an item has no own rate
}

// MergeHeader copies each non-empty src field into h unless h already holds a
// value for it.
func (h *Header) MergeHeader(src Header) {
	mergeIfAbsent(&h.VendorID, src.VendorID)
	mergeIfAbsent(&h.AttentionTo, src.AttentionTo)
	mergeIfAbsent(&h.InvoiceDate, src.InvoiceDate)
	mergeIfAbsent(&h.CreditTerm, src.CreditTerm)
	mergeIfAbsent(&h.InvoiceNo, src.InvoiceNo)
	mergeIfAbsent(&h.RelatedInvoiceNo, src.RelatedInvoiceNo)
	mergeIfAbsent(&h.InvoiceStatus, src.InvoiceStatus)
	mergeIfAbsent(&h.InstructionID, src.InstructionID)
	mergeIfAbsent(&h.HeaderDescription, src.HeaderDescription)
}

// MergeTotals applies the same first-writer-wins rule to the totals block.
func (t *Totals) MergeTotals(src Totals) {
	mergeIfAbsent(&t.Currency, src.Currency)
	mergeIfAbsent(&t.Subtotal, src.Subtotal)
	mergeIfAbsent(&t.Tax, src.Tax)
	mergeIfAbsent(&t.Freight, src.Freight)
	mergeIfAbsent(&t.GrandTotal, src.GrandTotal)
}

func mergeIfAbsent(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}
