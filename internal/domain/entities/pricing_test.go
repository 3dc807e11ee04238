package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceBreakdown_Verify(t *testing.T) {
	good := PriceBreakdown{
		Items: []PricedItem{
			{ItemNo: 1, Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(50), TotalPrice: decimal.NewFromInt(5000), Resolution: ResolutionName},
			{ItemNo: 2, Quantity: decimal.NewFromInt(3), Resolution: ResolutionUnresolved},
		},
		Tests:             []TestCost{{Name: "Basic Test", Cost: decimal.NewFromInt(2000), Known: true}},
		TotalMaterialCost: decimal.NewFromInt(5000),
		TotalTestCost:     decimal.NewFromInt(2000),
		GrandTotal:        decimal.NewFromInt(7000),
	}
	if err := good.Verify(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := good
	bad.GrandTotal = decimal.NewFromInt(7001)
	if err := bad.Verify(); !errors.Is(err, ErrBreakdownInvariant) {
		t.Fatalf("expected ErrBreakdownInvariant, got %v", err)
	}

	badItem := good
	badItem.Items = []PricedItem{{ItemNo: 1, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5), TotalPrice: decimal.NewFromInt(11), Resolution: ResolutionExactSKU}}
	if err := badItem.Verify(); !errors.Is(err, ErrBreakdownInvariant) {
		t.Fatalf("expected ErrBreakdownInvariant for item total, got %v", err)
	}
}

func TestLedgerSnapshot_Lookups(t *testing.T) {
	s := NewLedgerSnapshot(
		[]ProductPrice{
			{SKU: "SKU-1", Name: "Product A", BasePrice: decimal.NewFromInt(50)},
			{SKU: "sku-1", Name: "Duplicate", BasePrice: decimal.NewFromInt(99)},
		},
		[]TestPrice{{Name: "Basic Test", Cost: decimal.NewFromInt(2000)}},
	)

	p, ok := s.ProductBySKU(" SKU-1 ")
	if !ok || p.Name != "Product A" {
		t.Fatalf("expected first SKU row to win, got %+v", p)
	}
	if _, ok := s.ProductByName("product a"); !ok {
		t.Fatalf("expected case-insensitive name lookup")
	}
	if _, ok := s.Test("basic test"); !ok {
		t.Fatalf("expected case-insensitive test lookup")
	}
	if _, ok := s.Test("Unknown"); ok {
		t.Fatalf("unexpected test hit")
	}

	var nilSnap *LedgerSnapshot
	if _, ok := nilSnap.ProductBySKU("SKU-1"); ok {
		t.Fatalf("nil snapshot must not resolve")
	}
}

func TestCompareSpecs(t *testing.T) {
	want := Specs{
		SpecConductorAreaMm2:  NumericSpec(1.5),
		SpecConductorMaterial: CategoricalSpec("Copper"),
		SpecCurrentRatingAmps: NumericSpec(20),
	}
	have := Specs{
		SpecConductorAreaMm2:  NumericSpec(1.5),
		SpecConductorMaterial: CategoricalSpec("copper"),
		SpecCurrentRatingAmps: NumericSpec(10),
	}
	deltas, score := CompareSpecs(want, have)
	if len(deltas) != 3 {
		t.Fatalf("expected 3 deltas, got %d", len(deltas))
	}
	// (1 + 1 + 0.5) / 3
	if score < 0.833 || score > 0.834 {
		t.Fatalf("unexpected score %v", score)
	}
	if deltas[0].Name != SpecConductorAreaMm2 {
		t.Fatalf("expected deltas sorted by name, got %s first", deltas[0].Name)
	}

	_, missing := CompareSpecs(want, Specs{})
	if missing != 0 {
		t.Fatalf("expected 0 for missing attributes, got %v", missing)
	}
}
