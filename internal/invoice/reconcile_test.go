package invoice

import "testing"

func TestReconcileLeavesCompleteTotalsAlone(t *testing.T) {
	inv := &Invoice{
		Items:  []LineItem{{GrossEx: "50.00", GrossInc: "54.50"}},
		Totals: Totals{Currency: "Singapore Dollar", Subtotal: "999.99", Tax: "88.88"},
	}
	Reconcile(inv, LayoutStandard)
	if inv.Totals.Subtotal != "999.99" || inv.Totals.Tax != "88.88" {
		t.Errorf("text totals altered: %+v", inv.Totals)
	}
}

func TestReconcileComputesFromItems(t *testing.T) {
	inv := &Invoice{Items: []LineItem{
		{GrossEx: "100.00", GrossInc: "109.00"},
		{GrossEx: "1,100.00", GrossInc: "1,199.00"},
		{GrossEx: "junk", GrossInc: "1.00"}, // unparseable amounts contribute nothing
	}}
	Reconcile(inv, LayoutStandard)
	if inv.Totals.Subtotal != "1200.00" {
		t.Errorf("Subtotal = %q, want 1200.00", inv.Totals.Subtotal)
	}
	if inv.Totals.Tax != "108.00" {
		t.Errorf("Tax = %q, want 108.00", inv.Totals.Tax)
	}
	if inv.Totals.Currency != "Singapore Dollar" {
		t.Errorf("Currency default missing: %q", inv.Totals.Currency)
	}
	if inv.Totals.Freight != "" || inv.Totals.GrandTotal != "" {
		t.Errorf("standard layout must not track freight/grand total: %+v", inv.Totals)
	}
}

func TestReconcileGuardsInvertedAmounts(t *testing.T) {
	inv := &Invoice{Items: []LineItem{
		{GrossEx: "100.00", GrossInc: "109.00"},
		{GrossEx: "100.00", GrossInc: "90.00"}, // inc < ex: malformed capture
	}}
	Reconcile(inv, LayoutStandard)
	if inv.Totals.Tax != "9.00" {
		t.Errorf("Tax = %q, want 9.00 (inverted line excluded)", inv.Totals.Tax)
	}
	if inv.Totals.Subtotal != "200.00" {
		t.Errorf("Subtotal = %q, want 200.00", inv.Totals.Subtotal)
	}
}

func TestReconcileTextPrecedenceOverComputed(t *testing.T) {
	inv := &Invoice{
		Items:  []LineItem{{GrossEx: "100.00", GrossInc: "109.00"}},
		Totals: Totals{Subtotal: "555.00"}, // read from text; currency and tax missing
	}
	Reconcile(inv, LayoutStandard)
	if inv.Totals.Subtotal != "555.00" {
		t.Errorf("Subtotal = %q, text value must win", inv.Totals.Subtotal)
	}
	if inv.Totals.Tax != "9.00" {
		t.Errorf("Tax = %q, want computed 9.00", inv.Totals.Tax)
	}
}

func TestReconcileTaxedLayout(t *testing.T) {
	inv := &Invoice{Items: []LineItem{
		{GrossEx: "100.00", TaxAmount: "9.00", GrossInc: "109.00"},
		{GrossEx: "200.00", TaxAmount: "18.00", GrossInc: "218.00"},
	}}
	Reconcile(inv, LayoutTaxed)
	if inv.Totals.Subtotal != "300.00" {
		t.Errorf("Subtotal = %q", inv.Totals.Subtotal)
	}
	if inv.Totals.Tax != "27.00" {
		t.Errorf("Tax = %q, want sum of per-line tax", inv.Totals.Tax)
	}
	if inv.Totals.Freight != "0.00" {
		t.Errorf("Freight = %q, want default 0.00", inv.Totals.Freight)
	}
	if inv.Totals.GrandTotal != "327.00" {
		t.Errorf("GrandTotal = %q, want sum of gross-inc", inv.Totals.GrandTotal)
	}
}

func TestReconcileTaxedGrandTotalFallback(t *testing.T) {
	// gross-inc amounts unusable: grand total falls back to subtotal+tax+freight
	inv := &Invoice{
		Items:  []LineItem{{GrossEx: "100.00", TaxAmount: "9.00", GrossInc: "bad"}},
		Totals: Totals{Freight: "25.00"},
	}
	Reconcile(inv, LayoutTaxed)
	if inv.Totals.GrandTotal != "134.00" {
		t.Errorf("GrandTotal = %q, want 134.00", inv.Totals.GrandTotal)
	}
	if inv.Totals.Freight != "25.00" {
		t.Errorf("Freight from text must win: %q", inv.Totals.Freight)
	}
}

func TestReconcileCurrencyFromTextWins(t *testing.T) {
	inv := &Invoice{Totals: Totals{Currency: "US Dollar"}}
	Reconcile(inv, LayoutStandard)
	if inv.Totals.Currency != "US Dollar" {
		t.Errorf("Currency = %q, default must not override text", inv.Totals.Currency)
	}
}

func TestLayoutComplete(t *testing.T) {
	full := Totals{Currency: "Singapore Dollar", Subtotal: "1.00", Tax: "0.09"}
	if !LayoutStandard.Complete(full) {
		t.Error("standard layout should be complete")
	}
	if LayoutTaxed.Complete(full) {
		t.Error("taxed layout needs freight and grand total")
	}
	full.Freight, full.GrandTotal = "0.00", "1.09"
	if !LayoutTaxed.Complete(full) {
		t.Error("taxed layout should now be complete")
	}
	if LayoutStandard.Complete(Totals{Currency: "X", Subtotal: "1.00"}) {
		t.Error("missing tax should be incomplete")
	}
}
