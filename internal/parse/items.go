package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/apdesk/invoicelines/internal/common"
	"github.com/apdesk/invoicelines/internal/invoice"
)

// minDescriptionLen rejects spurious matches whose "description" is just
// stray tokens between numbers.
const minDescriptionLen = 3

// grammar is one line-item pattern strategy. Grammars are tried in order per
// layout; the first one yielding any matches wins, so a fallback only runs
// when the preferred pattern matched nothing.
type grammar struct {
	re     *regexp.Regexp
	hasTax bool
}

// The field tuples have no delimiters beyond whitespace; decimal-place counts
// are what tells quantity (5dp) apart from unit price (2-4dp) and amount
// fields (2dp). The primary grammar requires the stray "0" token between unit
// price and quantity: it is what keeps six captured fields from swallowing a
// seven-field taxed line (tax amount read as gross-inc, real total dropped).
// Sources that omit the token get their own grammar ordered after the taxed
// one, so taxed lines are claimed first.
var (
	// lineNo, description, unitPrice(3-4dp), stray 0, quantity(5dp), grossEx, grossInc
	rePlain = regexp.MustCompile(`(?i)(?:^|\s)(\d{1,3})\s+(.+?)\s+(\d[\d,]*\.\d{3,4})\s+0(?:\.0+)?\s+(\d+\.\d{5})\s+(\d[\d,]*\.\d{2})\s+(\d[\d,]*\.\d{2})\b`)

	// lineNo, description, unitPrice(2-4dp), quantity(5dp), grossEx, taxAmount, grossInc
	reTaxed = regexp.MustCompile(`(?i)(?:^|\s)(\d{1,3})\s+(.+?)\s+(\d[\d,]*\.\d{2,4})\s+(\d+\.\d{5})\s+(\d[\d,]*\.\d{2})\s+(\d[\d,]*\.\d{2})\s+(\d[\d,]*\.\d{2})\b`)

	// Older revision of the taxed grammar with a 3dp quantity.
	reTaxedQty3 = regexp.MustCompile(`(?i)(?:^|\s)(\d{1,3})\s+(.+?)\s+(\d[\d,]*\.\d{2,4})\s+(\d+\.\d{3})\s+(\d[\d,]*\.\d{2})\s+(\d[\d,]*\.\d{2})\s+(\d[\d,]*\.\d{2})\b`)

	// rePlain without the stray token, for sources that drop it.
	rePlainNoZero = regexp.MustCompile(`(?i)(?:^|\s)(\d{1,3})\s+(.+?)\s+(\d[\d,]*\.\d{3,4})\s+(\d+\.\d{5})\s+(\d[\d,]*\.\d{2})\s+(\d[\d,]*\.\d{2})\b`)
)

var grammars = map[invoice.Layout][]grammar{
	invoice.LayoutStandard: {
		{re: rePlain, hasTax: false},
		{re: reTaxed, hasTax: true},
		{re: rePlainNoZero, hasTax: false},
	},
	invoice.LayoutTaxed: {
		{re: reTaxed, hasTax: true},
		{re: reTaxedQty3, hasTax: true},
		{re: rePlain, hasTax: false},
		{re: rePlainNoZero, hasTax: false},
	},
}

// ExtractLineItems recognizes the repeating line-item tuples in a normalized
// chunk, trying the layout's grammars in order and keeping the first one that
// matches at all. Returns nil when nothing matched; that is not an error.
func ExtractLineItems(text string, layout invoice.Layout) []invoice.LineItem {
	for _, g := range grammars[layout] {
		if items := g.match(text); len(items) > 0 {
			return items
		}
	}
	return nil
}

func (g grammar) match(text string) []invoice.LineItem {
	var items []invoice.LineItem
	for _, m := range g.re.FindAllStringSubmatch(text, -1) {
		lineNo, _ := strconv.Atoi(m[1])
		desc := strings.TrimSpace(m[2])
		if len(desc) < minDescriptionLen {
			continue
		}
		li := invoice.LineItem{
			LineNo:      lineNo,
			Description: desc,
			UnitPrice:   m[3],
			Quantity:    m[4],
			GrossEx:     m[5],
		}
		if g.hasTax {
			li.TaxAmount = m[6]
			li.GrossInc = m[7]
			li.TaxRate = deriveRate(li.GrossEx, li.TaxAmount)
		} else {
			li.GrossInc = m[6]
		}
		items = append(items, li)
	}
	return items
}

// deriveRate computes the tax rate percent to one decimal place from the
// per-line tax amount, when the excluding-tax amount is positive.
func deriveRate(grossEx, taxAmount string) *float64 {
	ex, exOK := common.ToNumber(grossEx)
	tax, taxOK := common.ToNumber(taxAmount)
	if !exOK || !taxOK || ex <= 0 {
		return nil
	}
	rate := math.Round(tax/ex*1000) / 10
	return &rate
}
