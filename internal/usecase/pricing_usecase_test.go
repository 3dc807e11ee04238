package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"rfp_automation/internal/domain/entities"
	mock_interfaces "rfp_automation/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func testSnapshot() *entities.LedgerSnapshot {
	return entities.NewLedgerSnapshot(
		[]entities.ProductPrice{
			{SKU: "SKU-A", Name: "Product A", Unit: "meter", BasePrice: decimal.NewFromInt(50)},
			{
				SKU: "SKU-15", Name: "1.5 sq mm copper", BasePrice: decimal.RequireFromString("12.5"),
				Specs: entities.Specs{
					entities.SpecConductorAreaMm2:  entities.NumericSpec(1.5),
					entities.SpecConductorMaterial: entities.CategoricalSpec("copper"),
				},
			},
			{
				SKU: "SKU-40", Name: "4 sq mm aluminium", BasePrice: decimal.NewFromInt(30),
				Specs: entities.Specs{
					entities.SpecConductorAreaMm2:  entities.NumericSpec(4),
					entities.SpecConductorMaterial: entities.CategoricalSpec("aluminium"),
				},
			},
		},
		[]entities.TestPrice{
			{Name: "Basic Test", Type: "routine", Cost: decimal.NewFromInt(2000), DurationDays: 2},
			{Name: "Quality Test", Type: "type", Cost: decimal.NewFromInt(3500)},
		},
	)
}

func newPricing(t *testing.T) *PricingUseCase {
	t.Helper()
	ctrl := gomock.NewController(t)
	ledger := mock_interfaces.NewMockIPricingLedger(ctrl)
	ledger.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(), nil).AnyTimes()
	return NewPricingUseCase(ledger, nil, 0.8)
}

func TestPricingUseCase_Price(t *testing.T) {
	t.Run("name match with test", func(t *testing.T) {
		uc := newPricing(t)
		b, err := uc.Price(context.Background(), "rfp-1",
			[]entities.LineItem{{ItemNo: 1, Description: "Product A", Quantity: decimal.NewFromInt(100)}},
			[]string{"Basic Test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !b.TotalMaterialCost.Equal(decimal.NewFromInt(5000)) ||
			!b.TotalTestCost.Equal(decimal.NewFromInt(2000)) ||
			!b.GrandTotal.Equal(decimal.NewFromInt(7000)) {
			t.Fatalf("unexpected totals %s %s %s", b.TotalMaterialCost, b.TotalTestCost, b.GrandTotal)
		}
		if b.Items[0].Resolution != entities.ResolutionName || b.Items[0].SKU != "SKU-A" {
			t.Fatalf("unexpected item %+v", b.Items[0])
		}
		if len(b.Warnings) != 0 {
			t.Fatalf("unexpected warnings %+v", b.Warnings)
		}
	})

	t.Run("sku wins over name", func(t *testing.T) {
		uc := newPricing(t)
		b, err := uc.Price(context.Background(), "rfp-1",
			[]entities.LineItem{{ItemNo: 1, Description: "Product A", SKU: "sku-40", Quantity: decimal.NewFromInt(2)}}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Items[0].Resolution != entities.ResolutionExactSKU || !b.GrandTotal.Equal(decimal.NewFromInt(60)) {
			t.Fatalf("unexpected item %+v total %s", b.Items[0], b.GrandTotal)
		}
	})

	t.Run("attribute match", func(t *testing.T) {
		uc := newPricing(t)
		b, err := uc.Price(context.Background(), "rfp-1", []entities.LineItem{{
			ItemNo:      1,
			Description: "flexible cable",
			Quantity:    decimal.NewFromInt(10),
			Specs: entities.Specs{
				entities.SpecConductorAreaMm2:  entities.NumericSpec(1.5),
				entities.SpecConductorMaterial: entities.CategoricalSpec("Copper"),
			},
		}}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		it := b.Items[0]
		if it.Resolution != entities.ResolutionAttributes || it.SKU != "SKU-15" || it.MatchScore != 1 {
			t.Fatalf("unexpected item %+v", it)
		}
		if !it.TotalPrice.Equal(decimal.NewFromInt(125)) {
			t.Fatalf("unexpected total %s", it.TotalPrice)
		}
	})

	t.Run("unresolved and unknown tests", func(t *testing.T) {
		uc := newPricing(t)
		b, err := uc.Price(context.Background(), "rfp-1",
			[]entities.LineItem{
				{ItemNo: 1, Description: "Product A", Quantity: decimal.NewFromInt(1)},
				{ItemNo: 2, Description: "Mystery widget", Quantity: decimal.NewFromInt(3)},
			},
			[]string{"Basic Test", "basic test", "Salt Spray"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Items[1].Resolution != entities.ResolutionUnresolved || !b.Items[1].TotalPrice.IsZero() {
			t.Fatalf("expected unresolved zero-priced item, got %+v", b.Items[1])
		}
		if len(b.Tests) != 2 || b.Tests[1].Known || !b.Tests[1].Cost.IsZero() {
			t.Fatalf("unexpected tests %+v", b.Tests)
		}
		if !b.GrandTotal.Equal(decimal.NewFromInt(2050)) {
			t.Fatalf("unexpected grand total %s", b.GrandTotal)
		}
		if len(b.Warnings) != 2 ||
			b.Warnings[0].Kind != entities.WarningUnresolvedPricingItem || b.Warnings[0].ItemNumbers[0] != 2 ||
			b.Warnings[1].Kind != entities.WarningUnknownTestName || b.Warnings[1].TestNames[0] != "Salt Spray" {
			t.Fatalf("unexpected warnings %+v", b.Warnings)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		uc := newPricing(t)
		b, err := uc.Price(context.Background(), "rfp-1",
			[]entities.LineItem{{ItemNo: 1, Description: "Product A", Quantity: decimal.Zero}}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !b.GrandTotal.IsZero() || b.Items[0].Resolution != entities.ResolutionName {
			t.Fatalf("unexpected breakdown %+v", b)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		uc := newPricing(t)
		if _, err := uc.Price(context.Background(), " ", nil, nil); !errors.Is(err, ErrInvalidRfpID) {
			t.Fatalf("expected ErrInvalidRfpID, got %v", err)
		}
		_, err := uc.Price(context.Background(), "rfp-1",
			[]entities.LineItem{{ItemNo: 4, Quantity: decimal.NewFromInt(-1)}}, nil)
		if !errors.Is(err, ErrInvalidLineItem) {
			t.Fatalf("expected ErrInvalidLineItem, got %v", err)
		}
	})

	t.Run("ledger unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ledger := mock_interfaces.NewMockIPricingLedger(ctrl)
		ledger.EXPECT().Snapshot(gomock.Any()).Return(nil, errors.New("not loaded"))
		uc := NewPricingUseCase(ledger, nil, 0.8)

		if _, err := uc.Price(context.Background(), "rfp-1", nil, nil); !errors.Is(err, ErrLedgerUnavailable) {
			t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
		}
	})
}

// generatedLine is a line item together with the unit price the ledger in
// testSnapshot must resolve it to. A nil price means unresolved.
type generatedLine struct {
	item  entities.LineItem
	price *decimal.Decimal
}

func generateLine(r *rand.Rand, itemNo int) generatedLine {
	fifty := decimal.NewFromInt(50)
	twelve := decimal.RequireFromString("12.5")
	thirty := decimal.NewFromInt(30)

	var qty decimal.Decimal
	switch r.Intn(3) {
	case 0:
		qty = decimal.Zero
	case 1:
		qty = decimal.NewFromInt(r.Int63n(5000))
	default:
		qty = decimal.New(r.Int63n(1_000_000), -int32(1+r.Intn(3)))
	}

	it := entities.LineItem{ItemNo: itemNo, Quantity: qty}
	switch r.Intn(6) {
	case 0:
		it.SKU = "SKU-A"
		return generatedLine{it, &fifty}
	case 1:
		it.Description = "product a"
		return generatedLine{it, &fifty}
	case 2:
		it.SKU, it.Description = "sku-15", "Product A"
		return generatedLine{it, &twelve}
	case 3:
		it.Description = "4 sq mm aluminium armoured"
		it.Specs = entities.Specs{
			entities.SpecConductorAreaMm2:  entities.NumericSpec(4),
			entities.SpecConductorMaterial: entities.CategoricalSpec("Aluminium"),
		}
		return generatedLine{it, &thirty}
	case 4:
		it.Description = fmt.Sprintf("mystery widget %d", itemNo)
	default:
		it.SKU, it.Description = "SKU-ZZ", "not in catalogue"
	}
	return generatedLine{it, nil}
}

func TestPricingUseCase_TotalsHoldForGeneratedInputs(t *testing.T) {
	testPool := []string{"Basic Test", "basic test ", "Quality Test", "Unknown Test", "  ", "QUALITY TEST"}
	testCosts := map[string]decimal.Decimal{
		"basic test":   decimal.NewFromInt(2000),
		"quality test": decimal.NewFromInt(3500),
	}
	uc := newPricing(t)
	r := rand.New(rand.NewSource(20240611))

	for run := 0; run < 300; run++ {
		var (
			lines          []generatedLine
			items          []entities.LineItem
			wantMaterial   = decimal.Zero
			wantUnresolved []int
		)
		n := r.Intn(8)
		for i := 1; i <= n; i++ {
			l := generateLine(r, i)
			lines = append(lines, l)
			items = append(items, l.item)
			if l.price == nil {
				wantUnresolved = append(wantUnresolved, i)
				continue
			}
			wantMaterial = wantMaterial.Add(l.price.Mul(l.item.Quantity))
		}

		var names []string
		wantTests := decimal.Zero
		seen := map[string]bool{}
		for i := r.Intn(6); i > 0; i-- {
			name := testPool[r.Intn(len(testPool))]
			names = append(names, name)
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			wantTests = wantTests.Add(testCosts[key])
		}

		b, err := uc.Price(context.Background(), "rfp-gen", items, names)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if err := b.Verify(); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}

		resolved := decimal.Zero
		for i, it := range b.Items {
			if it.Unresolved() {
				if lines[i].price != nil {
					t.Fatalf("run %d: item %d should resolve", run, it.ItemNo)
				}
				continue
			}
			resolved = resolved.Add(it.TotalPrice)
		}
		if !resolved.Equal(b.TotalMaterialCost) || !b.TotalMaterialCost.Equal(wantMaterial) {
			t.Fatalf("run %d: material %s, resolved sum %s, expected %s", run, b.TotalMaterialCost, resolved, wantMaterial)
		}
		if !b.TotalTestCost.Equal(wantTests) {
			t.Fatalf("run %d: test cost %s, expected %s", run, b.TotalTestCost, wantTests)
		}
		if !b.GrandTotal.Equal(b.TotalMaterialCost.Add(b.TotalTestCost)) {
			t.Fatalf("run %d: grand total %s != %s + %s", run, b.GrandTotal, b.TotalMaterialCost, b.TotalTestCost)
		}
		if len(wantUnresolved) > 0 {
			if len(b.Warnings) == 0 || b.Warnings[0].Kind != entities.WarningUnresolvedPricingItem ||
				fmt.Sprint(b.Warnings[0].ItemNumbers) != fmt.Sprint(wantUnresolved) {
				t.Fatalf("run %d: expected unresolved warning for %v, got %+v", run, wantUnresolved, b.Warnings)
			}
		}

		again, err := uc.Price(context.Background(), "rfp-gen", items, names)
		if err != nil {
			t.Fatalf("run %d: second pricing failed: %v", run, err)
		}
		first, _ := json.Marshal(b)
		second, _ := json.Marshal(again)
		if !bytes.Equal(first, second) {
			t.Fatalf("run %d: pricing is not deterministic:\n%s\n%s", run, first, second)
		}
	}
}
