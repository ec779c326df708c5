package parse

import (
	"testing"

	"github.com/apdesk/invoicelines/internal/invoice"
)

func TestExtractLineItemsPrimary(t *testing.T) {
	text := "1 Cloud hosting subscription 100.0000 0 1.00000 100.00 109.00 " +
		"2 Managed backup service 50.0000 0 2.00000 100.00 109.00"
	items := ExtractLineItems(text, invoice.LayoutStandard)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	li := items[0]
	if li.LineNo != 1 || li.Description != "Cloud hosting subscription" {
		t.Errorf("item 0 = %+v", li)
	}
	if li.UnitPrice != "100.0000" || li.Quantity != "1.00000" {
		t.Errorf("unit price/quantity = %q/%q", li.UnitPrice, li.Quantity)
	}
	if li.GrossEx != "100.00" || li.GrossInc != "109.00" {
		t.Errorf("gross ex/inc = %q/%q", li.GrossEx, li.GrossInc)
	}
	if li.TaxAmount != "" || li.TaxRate != nil {
		t.Errorf("primary grammar carries no tax fields: %+v", li)
	}
	if items[1].LineNo != 2 || items[1].Description != "Managed backup service" {
		t.Errorf("item 1 = %+v", items[1])
	}
}

func TestExtractLineItemsNoStrayZero(t *testing.T) {
	// some source layouts omit the stray "0" token between price and quantity;
	// those lines are picked up by the last grammar in the ordered list
	text := "1 Network maintenance 75.0000 4.00000 300.00 327.00"
	items := ExtractLineItems(text, invoice.LayoutStandard)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Quantity != "4.00000" || items[0].GrossEx != "300.00" {
		t.Errorf("item = %+v", items[0])
	}
	if items[0].GrossInc != "327.00" || items[0].TaxAmount != "" {
		t.Errorf("item = %+v", items[0])
	}
}

func TestExtractLineItemsTaxedLineNotShadowed(t *testing.T) {
	// a seven-field line with a 3dp unit price must reach the taxed grammar;
	// a six-field read would take the tax amount for the including-tax total
	text := "1 Consulting retainer 100.000 1.00000 100.00 9.00 109.00"
	items := ExtractLineItems(text, invoice.LayoutStandard)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	li := items[0]
	if li.TaxAmount != "9.00" || li.GrossInc != "109.00" {
		t.Errorf("tax/inc = %q/%q, want 9.00/109.00", li.TaxAmount, li.GrossInc)
	}
	if li.TaxRate == nil || *li.TaxRate != 9.0 {
		t.Errorf("TaxRate = %v, want 9.0", li.TaxRate)
	}
}

func TestExtractLineItemsFallback(t *testing.T) {
	// 2dp unit price never matches the primary grammar; the 7-field fallback
	// with a tax amount column picks it up
	text := "1 Consulting retainer 100.00 1.00000 100.00 9.00 109.00"
	items := ExtractLineItems(text, invoice.LayoutStandard)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	li := items[0]
	if li.TaxAmount != "9.00" {
		t.Errorf("TaxAmount = %q", li.TaxAmount)
	}
	if li.TaxRate == nil || *li.TaxRate != 9.0 {
		t.Errorf("TaxRate = %v, want 9.0", li.TaxRate)
	}
}

func TestExtractLineItemsTaxedLayout(t *testing.T) {
	text := "1 Freight forwarding 1,250.00 2.00000 2,500.00 225.00 2,725.00"
	items := ExtractLineItems(text, invoice.LayoutTaxed)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	li := items[0]
	if li.UnitPrice != "1,250.00" || li.GrossEx != "2,500.00" {
		t.Errorf("separators not preserved: %+v", li)
	}
	if li.TaxRate == nil || *li.TaxRate != 9.0 {
		t.Errorf("TaxRate = %v, want 9.0", li.TaxRate)
	}
}

func TestExtractLineItemsTaxedQty3(t *testing.T) {
	// older revision: 3dp quantity
	text := "1 Storage rental 10.00 2.000 20.00 1.80 21.80"
	items := ExtractLineItems(text, invoice.LayoutTaxed)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Quantity != "2.000" {
		t.Errorf("Quantity = %q", items[0].Quantity)
	}
}

func TestExtractLineItemsRejectsShortDescription(t *testing.T) {
	text := "1 ab 100.0000 0 1.00000 100.00 109.00"
	if items := ExtractLineItems(text, invoice.LayoutStandard); len(items) != 0 {
		t.Errorf("short description should be rejected, got %+v", items)
	}
}

func TestExtractLineItemsNoMatch(t *testing.T) {
	if items := ExtractLineItems("no tabular content here", invoice.LayoutStandard); items != nil {
		t.Errorf("want nil for unmatched text, got %+v", items)
	}
}

func TestDeriveRate(t *testing.T) {
	tests := []struct {
		ex, tax string
		want    float64
		ok      bool
	}{
		{"100.00", "9.00", 9.0, true},
		{"200.00", "16.00", 8.0, true},
		{"150.00", "13.13", 8.8, true}, // rounds to one decimal place
		{"0.00", "9.00", 0, false},     // non-positive base
		{"", "9.00", 0, false},
		{"100.00", "junk", 0, false},
	}
	for _, tt := range tests {
		got := deriveRate(tt.ex, tt.tax)
		if tt.ok {
			if got == nil || *got != tt.want {
				t.Errorf("deriveRate(%q, %q) = %v, want %v", tt.ex, tt.tax, got, tt.want)
			}
		} else if got != nil {
			t.Errorf("deriveRate(%q, %q) = %v, want nil", tt.ex, tt.tax, *got)
		}
	}
}
