package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/apdesk/invoicelines/internal/invoice"
)

var (
	reInvoiceNo = regexp.MustCompile(`(?i)Invoice\s*No\s*:\s*([A-Z0-9-]+)`)
	reVendorID  = regexp.MustCompile(`(?i)Vendor\s*ID\s*:\s*([A-Z0-9]+)`)

	// free-text fields capture lazily and stop before the next label word, so
	// a following "Invoice Date : ..." is not swallowed into the value
	reAttentionTo = regexp.MustCompile(`(?i)Attention\s*To\s*:\s*([A-Za-z0-9 ,.'()/-]+?)(?:\s(?:Vendor|Attention|Invoice|Credit|Related|Invoicing|Description|Currency|GST|Sub|Total|Freight)\b|$)`)
	reCreditTerm  = regexp.MustCompile(`(?i)Credit\s*Term\s*:\s*([A-Za-z0-9 ]+?)(?:\s(?:Vendor|Attention|Invoice|Credit|Related|Invoicing|Description|Currency|GST|Sub|Total|Freight)\b|$)`)

	reInvoiceDate = regexp.MustCompile(`(?i)Invoice\s*Date\s*:\s*([0-3]?\d[/-][01]?\d[/-]\d{2,4})`)
	reRelatedNo   = regexp.MustCompile(`(?i)Related\s*Invoice\s*No\s*:\s*([A-Z0-9-]+)`)
	reStatus      = regexp.MustCompile(`(?i)Invoice\s*Status\s*:\s*([A-Za-z]+)`)
	reInstruction = regexp.MustCompile(`(?i)Invoicing\s*Instruction\s*ID\s*:\s*([A-Z0-9-]+)`)

	// Header description runs non-greedily up to the first strong boundary
	// label, or end of text.
	reHeaderDesc = regexp.MustCompile(`(?i)Description\s*:\s*(.+?)(?:\s(?:No\.\s|Currency\s*:|Invoice\s*Amount\s*Summary|Sub\s*Total|Total\s*GST|Freight\s*Amount|Total\s*Invoice\s*Amount)|$)`)

	reGSTRate = regexp.MustCompile(`(?i)GST\s*@\s*(\d{1,2})\s*%`)
)

// FindInvoiceNo returns the invoice number labelled in text, or "" if none.
// The number defines which invoice the current chunk belongs to.
func FindInvoiceNo(text string) string {
	if m := reInvoiceNo.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractHeader independently matches each labelled header field. Fields that
// fail to match are simply absent; extraction never fails outright.
func ExtractHeader(text string) invoice.Header {
	var h invoice.Header
	if m := reVendorID.FindStringSubmatch(text); m != nil {
		h.VendorID = m[1]
	}
	if m := reAttentionTo.FindStringSubmatch(text); m != nil {
		h.AttentionTo = strings.TrimSpace(m[1])
	}
	if m := reInvoiceDate.FindStringSubmatch(text); m != nil {
		h.InvoiceDate = m[1]
	}
	if m := reCreditTerm.FindStringSubmatch(text); m != nil {
		h.CreditTerm = strings.TrimSpace(m[1])
	}
	if m := reInvoiceNo.FindStringSubmatch(text); m != nil {
		h.InvoiceNo = m[1]
	}
	if m := reRelatedNo.FindStringSubmatch(text); m != nil {
		h.RelatedInvoiceNo = m[1]
	}
	if m := reStatus.FindStringSubmatch(text); m != nil {
		h.InvoiceStatus = m[1]
	}
	if m := reInstruction.FindStringSubmatch(text); m != nil {
		h.InstructionID = m[1]
	}
	if m := reHeaderDesc.FindStringSubmatch(text); m != nil {
		h.HeaderDescription = strings.TrimSpace(m[1])
	}
	return h
}

// FindGSTRate matches an invoice-level "GST @ N%" label, used as a fallback
// when a line item carries no rate of its own.
func FindGSTRate(text string) *float64 {
	m := reGSTRate.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	rate, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &rate
}
