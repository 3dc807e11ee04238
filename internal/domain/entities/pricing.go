package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrBreakdownInvariant = errors.New("price breakdown totals do not add up")

// LineItem is one quantified requirement row to be priced.
// A quantity of zero is valid and contributes nothing.
type LineItem struct {
	ItemNo      int             `json:"itemNo"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	SKU         string          `json:"sku,omitempty"`
	Specs       Specs           `json:"specs,omitempty"`
}

// PriceResolution records how a unit price was found.
type PriceResolution string

const (
	ResolutionExactSKU   PriceResolution = "exact_sku"
	ResolutionName       PriceResolution = "name"
	ResolutionAttributes PriceResolution = "attributes"
	ResolutionUnresolved PriceResolution = "unresolved"
)

type PricedItem struct {
	ItemNo      int             `json:"itemNo"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	SKU         string          `json:"sku,omitempty"`
	ProductName string          `json:"productName,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Resolution  PriceResolution `json:"resolution"`
	MatchScore  float64         `json:"matchScore,omitempty"`
}

func (p PricedItem) Unresolved() bool {
	return p.Resolution == ResolutionUnresolved
}

type TestCost struct {
	Name         string          `json:"name"`
	Type         string          `json:"type,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	DurationDays int             `json:"durationDays,omitempty"`
	Known        bool            `json:"known"`
}

// PriceBreakdown is the itemized and aggregated result of pricing.
type PriceBreakdown struct {
	RfpID             string          `json:"rfpId"`
	Items             []PricedItem    `json:"pricingTable"`
	Tests             []TestCost      `json:"testBreakdown"`
	TotalMaterialCost decimal.Decimal `json:"totalMaterialCost"`
	TotalTestCost     decimal.Decimal `json:"totalTestCost"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	Warnings          []Warning       `json:"warnings,omitempty"`
}

// Verify checks the totals against the declared parts.
func (b PriceBreakdown) Verify() error {
	material := decimal.Zero
	for _, it := range b.Items {
		if it.Unresolved() {
			continue
		}
		if !it.TotalPrice.Equal(it.UnitPrice.Mul(it.Quantity)) {
			return fmt.Errorf("%w: item %d total %s != %s x %s", ErrBreakdownInvariant, it.ItemNo, it.TotalPrice, it.UnitPrice, it.Quantity)
		}
		material = material.Add(it.TotalPrice)
	}
	if !material.Equal(b.TotalMaterialCost) {
		return fmt.Errorf("%w: material %s != %s", ErrBreakdownInvariant, b.TotalMaterialCost, material)
	}
	tests := decimal.Zero
	for _, t := range b.Tests {
		tests = tests.Add(t.Cost)
	}
	if !tests.Equal(b.TotalTestCost) {
		return fmt.Errorf("%w: tests %s != %s", ErrBreakdownInvariant, b.TotalTestCost, tests)
	}
	if !b.GrandTotal.Equal(b.TotalMaterialCost.Add(b.TotalTestCost)) {
		return fmt.Errorf("%w: grand total %s != %s + %s", ErrBreakdownInvariant, b.GrandTotal, b.TotalMaterialCost, b.TotalTestCost)
	}
	return nil
}

// ProductPrice is a priced product row of the ledger.
type ProductPrice struct {
	SKU         string
	Name        string
	Unit        string
	ProductType string
	BasePrice   decimal.Decimal
	Specs       Specs
}

// TestPrice is the fixed cost of a named conformance test.
type TestPrice struct {
	Name         string
	Type         string
	Cost         decimal.Decimal
	DurationDays int
}

// LedgerSnapshot is an immutable view of the pricing ledger.
type LedgerSnapshot struct {
	products []ProductPrice
	bySKU    map[string]int
	byName   map[string]int
	tests    map[string]TestPrice
}

// NewLedgerSnapshot indexes the rows. Later duplicates of a SKU, name or test
// name are ignored so the first row in the source wins.
func NewLedgerSnapshot(products []ProductPrice, tests []TestPrice) *LedgerSnapshot {
	s := &LedgerSnapshot{
		products: make([]ProductPrice, 0, len(products)),
		bySKU:    make(map[string]int, len(products)),
		byName:   make(map[string]int, len(products)),
		tests:    make(map[string]TestPrice, len(tests)),
	}
	for _, p := range products {
		p.Specs = p.Specs.Clone()
		idx := len(s.products)
		s.products = append(s.products, p)
		if k := normalizeKey(p.SKU); k != "" {
			if _, dup := s.bySKU[k]; !dup {
				s.bySKU[k] = idx
			}
		}
		if k := normalizeKey(p.Name); k != "" {
			if _, dup := s.byName[k]; !dup {
				s.byName[k] = idx
			}
		}
	}
	for _, t := range tests {
		k := normalizeKey(t.Name)
		if k == "" {
			continue
		}
		if _, dup := s.tests[k]; !dup {
			s.tests[k] = t
		}
	}
	return s
}

func (s *LedgerSnapshot) Products() []ProductPrice {
	if s == nil {
		return nil
	}
	return s.products
}

func (s *LedgerSnapshot) ProductBySKU(sku string) (ProductPrice, bool) {
	if s == nil {
		return ProductPrice{}, false
	}
	idx, ok := s.bySKU[normalizeKey(sku)]
	if !ok {
		return ProductPrice{}, false
	}
	return s.products[idx], true
}

func (s *LedgerSnapshot) ProductByName(name string) (ProductPrice, bool) {
	if s == nil {
		return ProductPrice{}, false
	}
	idx, ok := s.byName[normalizeKey(name)]
	if !ok {
		return ProductPrice{}, false
	}
	return s.products[idx], true
}

func (s *LedgerSnapshot) Test(name string) (TestPrice, bool) {
	if s == nil {
		return TestPrice{}, false
	}
	t, ok := s.tests[normalizeKey(name)]
	return t, ok
}

func (s *LedgerSnapshot) Len() (products, tests int) {
	if s == nil {
		return 0, 0
	}
	return len(s.products), len(s.tests)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
