package response

import "rfp_automation/internal/domain/entities"

type PricedItemResponse struct {
	ItemNo      int     `json:"itemNo"`
	Description string  `json:"description"`
	SKU         string  `json:"sku,omitempty"`
	ProductName string  `json:"productName,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	Resolution  string  `json:"resolution"`
	MatchScore  float64 `json:"matchScore,omitempty"`
}

type TestCostResponse struct {
	Name         string  `json:"name"`
	Type         string  `json:"type,omitempty"`
	Cost         float64 `json:"cost"`
	DurationDays int     `json:"durationDays,omitempty"`
	Known        bool    `json:"known"`
}

type WarningResponse struct {
	Kind        string   `json:"kind"`
	Message     string   `json:"message"`
	ItemNumbers []int    `json:"itemNumbers,omitempty"`
	TestNames   []string `json:"testNames,omitempty"`
}

// PriceBreakdownResponse renders decimal amounts as JSON numbers.
type PriceBreakdownResponse struct {
	RfpID             string               `json:"rfpId"`
	TotalMaterialCost float64              `json:"totalMaterialCost"`
	TotalTestCost     float64              `json:"totalTestCost"`
	GrandTotal        float64              `json:"grandTotal"`
	PricingTable      []PricedItemResponse `json:"pricingTable"`
	TestBreakdown     []TestCostResponse   `json:"testBreakdown"`
	Warnings          []WarningResponse    `json:"warnings"`
}

func FromPriceBreakdown(b entities.PriceBreakdown) PriceBreakdownResponse {
	res := PriceBreakdownResponse{
		RfpID:             b.RfpID,
		TotalMaterialCost: b.TotalMaterialCost.InexactFloat64(),
		TotalTestCost:     b.TotalTestCost.InexactFloat64(),
		GrandTotal:        b.GrandTotal.InexactFloat64(),
		PricingTable:      make([]PricedItemResponse, 0, len(b.Items)),
		TestBreakdown:     make([]TestCostResponse, 0, len(b.Tests)),
		Warnings:          FromWarnings(b.Warnings),
	}
	for _, it := range b.Items {
		res.PricingTable = append(res.PricingTable, PricedItemResponse{
			ItemNo:      it.ItemNo,
			Description: it.Description,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Unit:        it.Unit,
			Quantity:    it.Quantity.InexactFloat64(),
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			TotalPrice:  it.TotalPrice.InexactFloat64(),
			Resolution:  string(it.Resolution),
			MatchScore:  it.MatchScore,
		})
	}
	for _, t := range b.Tests {
		res.TestBreakdown = append(res.TestBreakdown, TestCostResponse{
			Name:         t.Name,
			Type:         t.Type,
			Cost:         t.Cost.InexactFloat64(),
			DurationDays: t.DurationDays,
			Known:        t.Known,
		})
	}
	return res
}

func FromWarnings(ws []entities.Warning) []WarningResponse {
	out := make([]WarningResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarningResponse{
			Kind:        string(w.Kind),
			Message:     w.Message,
			ItemNumbers: w.ItemNumbers,
			TestNames:   w.TestNames,
		})
	}
	return out
}
