package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/platform/logger"
	"rfp_automation/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=pricing_usecase.go -destination=../adapter/http/handlers/mocks/pricing_usecase.go -package=mocks

const DefaultAttributeMatchMinScore = 0.8

// IPricingUseCase computes price breakdowns against the current ledger snapshot.
type IPricingUseCase interface {
	Price(ctx context.Context, rfpID string, items []entities.LineItem, testNames []string) (entities.PriceBreakdown, error)
}

type PricingUseCase struct {
	ledger   interfaces.IPricingLedger
	minScore float64
	log      *logger.Logger
	tracer   trace.Tracer
}

var _ IPricingUseCase = (*PricingUseCase)(nil)

func NewPricingUseCase(ledger interfaces.IPricingLedger, log *logger.Logger, minScore float64) *PricingUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if minScore <= 0 || minScore > 1 {
		minScore = DefaultAttributeMatchMinScore
	}
	return &PricingUseCase{
		ledger:   ledger,
		minScore: minScore,
		log:      log,
		tracer:   otel.Tracer("rfp_automation/usecase/pricing"),
	}
}

// Price resolves each line item to a unit price and totals materials and tests.
//
// Resolution order per item: exact SKU, exact product name, then the closest
// product by specification attributes scoring at least minScore. Items left
// unresolved are listed in a warning and excluded from the totals. Unknown
// tests cost zero and are listed in a warning.
func (u *PricingUseCase) Price(ctx context.Context, rfpID string, items []entities.LineItem, testNames []string) (entities.PriceBreakdown, error) {
	rfpID = strings.TrimSpace(rfpID)
	if rfpID == "" {
		return entities.PriceBreakdown{}, ErrInvalidRfpID
	}
	for _, it := range items {
		if it.Quantity.IsNegative() {
			return entities.PriceBreakdown{}, fmt.Errorf("%w: item %d has negative quantity", ErrInvalidLineItem, it.ItemNo)
		}
	}

	ctx, span := u.tracer.Start(ctx, "pricing.price", trace.WithAttributes(
		attribute.String("rfp.id", rfpID),
		attribute.Int("line_items", len(items)),
	))
	defer span.End()

	snap, err := u.ledger.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		return entities.PriceBreakdown{}, fmt.Errorf("%w: %s", ErrLedgerUnavailable, err.Error())
	}

	b := entities.PriceBreakdown{
		RfpID:             rfpID,
		Items:             make([]entities.PricedItem, 0, len(items)),
		Tests:             []entities.TestCost{},
		TotalMaterialCost: decimal.Zero,
		TotalTestCost:     decimal.Zero,
	}

	var unresolved []int
	for _, it := range items {
		priced := u.priceItem(snap, it)
		if priced.Unresolved() {
			unresolved = append(unresolved, it.ItemNo)
		} else {
			b.TotalMaterialCost = b.TotalMaterialCost.Add(priced.TotalPrice)
		}
		b.Items = append(b.Items, priced)
	}

	var unknown []string
	seen := make(map[string]bool, len(testNames))
	for _, name := range testNames {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		tc := entities.TestCost{Name: name, Cost: decimal.Zero}
		if tp, ok := snap.Test(name); ok {
			tc.Type = tp.Type
			tc.Cost = tp.Cost
			tc.DurationDays = tp.DurationDays
			tc.Known = true
		} else {
			unknown = append(unknown, name)
		}
		b.TotalTestCost = b.TotalTestCost.Add(tc.Cost)
		b.Tests = append(b.Tests, tc)
	}
	b.GrandTotal = b.TotalMaterialCost.Add(b.TotalTestCost)

	if len(unresolved) > 0 {
		b.Warnings = append(b.Warnings, entities.Warning{
			Kind:        entities.WarningUnresolvedPricingItem,
			Message:     "no price found for items " + joinInts(unresolved),
			ItemNumbers: unresolved,
		})
	}
	if len(unknown) > 0 {
		b.Warnings = append(b.Warnings, entities.Warning{
			Kind:      entities.WarningUnknownTestName,
			Message:   "unknown tests priced at zero: " + strings.Join(unknown, ", "),
			TestNames: unknown,
		})
	}

	if err := b.Verify(); err != nil {
		span.RecordError(err)
		u.log.Error("price breakdown failed verification", "rfp_id", rfpID, "error", err)
		return entities.PriceBreakdown{}, err
	}
	return b, nil
}

func (u *PricingUseCase) priceItem(snap *entities.LedgerSnapshot, it entities.LineItem) entities.PricedItem {
	out := entities.PricedItem{
		ItemNo:      it.ItemNo,
		Description: it.Description,
		Quantity:    it.Quantity,
		SKU:         it.SKU,
		UnitPrice:   decimal.Zero,
		TotalPrice:  decimal.Zero,
		Resolution:  entities.ResolutionUnresolved,
	}

	product, resolution, score, ok := u.resolve(snap, it)
	if !ok {
		return out
	}
	out.SKU = product.SKU
	out.ProductName = product.Name
	out.Unit = product.Unit
	out.UnitPrice = product.BasePrice
	out.TotalPrice = product.BasePrice.Mul(it.Quantity)
	out.Resolution = resolution
	out.MatchScore = score
	return out
}

func (u *PricingUseCase) resolve(snap *entities.LedgerSnapshot, it entities.LineItem) (entities.ProductPrice, entities.PriceResolution, float64, bool) {
	if strings.TrimSpace(it.SKU) != "" {
		if p, ok := snap.ProductBySKU(it.SKU); ok {
			return p, entities.ResolutionExactSKU, 1, true
		}
	}
	if strings.TrimSpace(it.Description) != "" {
		if p, ok := snap.ProductByName(it.Description); ok {
			return p, entities.ResolutionName, 1, true
		}
	}
	if len(it.Specs) == 0 {
		return entities.ProductPrice{}, entities.ResolutionUnresolved, 0, false
	}

	var (
		best      entities.ProductPrice
		bestScore = -1.0
	)
	for _, p := range snap.Products() {
		if len(p.Specs) == 0 {
			continue
		}
		_, score := entities.CompareSpecs(it.Specs, p.Specs)
		if score > bestScore || (score == bestScore && p.SKU < best.SKU) {
			best, bestScore = p, score
		}
	}
	if bestScore < u.minScore {
		return entities.ProductPrice{}, entities.ResolutionUnresolved, 0, false
	}
	return best, entities.ResolutionAttributes, bestScore, true
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
