package invoice

import "fmt"

// Layout selects one of the line-item/totals grammars the source text may
// follow. The variants differ in whether lines carry an explicit tax amount
// and whether the summary block tracks freight and a grand total.
type Layout int

const (
	// LayoutStandard is the 19-column variant: no per-line tax amount, totals
	// are currency, subtotal and total GST.
	LayoutStandard Layout = iota

	// LayoutTaxed is the 21-column variant: per-line tax amount plus freight
	// and grand total in the summary block.
	LayoutTaxed
)

func (l Layout) String() string {
	switch l {
	case LayoutStandard:
		return "standard"
	case LayoutTaxed:
		return "taxed"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseLayout maps a config string to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "standard":
		return LayoutStandard, nil
	case "taxed":
		return LayoutTaxed, nil
	default:
		return LayoutStandard, fmt.Errorf("unknown layout %q", s)
	}
}

// HasLineTax reports whether the variant carries an explicit per-line tax
// amount column.
func (l Layout) HasLineTax() bool { return l == LayoutTaxed }

// Complete reports whether every totals attribute the variant requires is
// populated. Only incomplete totals are reconciled from line items.
func (l Layout) Complete(t Totals) bool {
	if t.Currency == "" || t.Subtotal == "" || t.Tax == "" {
		return false
	}
	if l == LayoutTaxed && (t.Freight == "" || t.GrandTotal == "") {
		return false
	}
	return true
}
