package parse

import "testing"

func TestExtractTotals(t *testing.T) {
	text := "Invoice Amount Summary Currency : Singapore Dollar " +
		"Sub Total (Excluding GST) : 1,300.00 Total GST Payable : 117.00 " +
		"Freight Amount : 25.00 Total Invoice Amount : 1,442.00"
	got := ExtractTotals(text)
	if got.Currency != "Singapore Dollar" {
		t.Errorf("Currency = %q", got.Currency)
	}
	if got.Subtotal != "1,300.00" {
		t.Errorf("Subtotal = %q", got.Subtotal)
	}
	if got.Tax != "117.00" {
		t.Errorf("Tax = %q", got.Tax)
	}
	if got.Freight != "25.00" {
		t.Errorf("Freight = %q", got.Freight)
	}
	if got.GrandTotal != "1,442.00" {
		t.Errorf("GrandTotal = %q", got.GrandTotal)
	}
}

func TestExtractTotalsCurrencyStopsAtNextLabel(t *testing.T) {
	got := ExtractTotals("Currency : Singapore Dollar Sub Total (Excluding GST) : 10.00")
	if got.Currency != "Singapore Dollar" {
		t.Errorf("Currency = %q, want %q", got.Currency, "Singapore Dollar")
	}
}

func TestExtractTotalsPartial(t *testing.T) {
	got := ExtractTotals("Total GST Payable : 9.00")
	if got.Tax != "9.00" {
		t.Errorf("Tax = %q", got.Tax)
	}
	if got.Currency != "" || got.Subtotal != "" || got.Freight != "" || got.GrandTotal != "" {
		t.Errorf("unmatched fields should stay empty: %+v", got)
	}
}

func TestExtractTotalsRequiresTwoDecimals(t *testing.T) {
	got := ExtractTotals("Sub Total (Excluding GST) : 1300")
	if got.Subtotal != "" {
		t.Errorf("integer amount should not match, got %q", got.Subtotal)
	}
}
