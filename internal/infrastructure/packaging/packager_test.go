package packaging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"rfp_automation/internal/domain/entities"
)

func completedJob() entities.Job {
	qty := decimal.NewFromInt(100)
	unit := decimal.NewFromInt(50)
	result := entities.JobResult{
		RfpDetails: entities.RfpDetails{ID: "rfp-1", Title: "Cable supply"},
		SpecMatches: []entities.MatchResult{{
			Query:   "1.5 sq mm cable",
			Matches: []entities.Match{{Entry: entities.CatalogEntry{ID: "r-1"}, Score: 0.93, Rationale: "area aligns"}},
		}},
		Pricing: entities.PriceBreakdown{
			RfpID:             "rfp-1",
			Items:             []entities.PricedItem{{ItemNo: 1, Quantity: qty, UnitPrice: unit, TotalPrice: qty.Mul(unit), Resolution: entities.ResolutionExactSKU}},
			Tests:             []entities.TestCost{{Name: "Basic Test", Cost: decimal.NewFromInt(2000), Known: true}},
			TotalMaterialCost: decimal.NewFromInt(5000),
			TotalTestCost:     decimal.NewFromInt(2000),
			GrandTotal:        decimal.NewFromInt(7000),
		},
	}
	return entities.Job{ID: "job-1", Status: entities.JobStatusCompleted, Result: &result}
}

func TestPackager_Package(t *testing.T) {
	dir := t.TempDir()
	p := NewPackager(dir)
	approval := entities.Approval{Approved: true, Comments: "ship it", DecidedAt: time.Now().UTC()}

	loc, err := p.Package(context.Background(), completedJob(), approval)
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	if loc != filepath.Join(dir, "job-1") {
		t.Fatalf("unexpected location %s", loc)
	}

	raw, err := os.ReadFile(filepath.Join(loc, ResponseFileName))
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode package: %v", err)
	}
	if decoded["jobId"] != "job-1" || decoded["rfpDetails"] == nil || decoded["pricing"] == nil {
		t.Fatalf("unexpected package content: %s", raw)
	}

	f, err := excelize.OpenFile(filepath.Join(loc, WorkbookFileName))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(matchesSheet)
	if err != nil {
		t.Fatalf("read matches: %v", err)
	}
	if len(rows) != 2 || rows[1][2] != "r-1" {
		t.Fatalf("unexpected matches sheet %v", rows)
	}
	total, _ := f.GetCellValue(pricingSheet, "H1")
	if total != "Total Price" {
		t.Fatalf("unexpected pricing header %q", total)
	}
}

func TestPackager_NoResult(t *testing.T) {
	_, err := NewPackager(t.TempDir()).Package(context.Background(), entities.Job{ID: "x"}, entities.Approval{})
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestPackager_WritesExactAmounts(t *testing.T) {
	job := completedJob()
	qty := decimal.NewFromInt(3)
	tenth := decimal.RequireFromString("0.1")
	fine := decimal.RequireFromString("12.345")
	job.Result.Pricing.Items = []entities.PricedItem{
		{ItemNo: 1, Quantity: qty, UnitPrice: tenth, TotalPrice: qty.Mul(tenth), Resolution: entities.ResolutionExactSKU},
		{ItemNo: 2, Quantity: decimal.NewFromInt(1), UnitPrice: fine, TotalPrice: fine, Resolution: entities.ResolutionExactSKU},
	}
	job.Result.Pricing.TotalMaterialCost = qty.Mul(tenth).Add(fine)
	job.Result.Pricing.GrandTotal = job.Result.Pricing.TotalMaterialCost.Add(job.Result.Pricing.TotalTestCost)

	loc, err := NewPackager(t.TempDir()).Package(context.Background(), job, entities.Approval{Approved: true})
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	f, err := excelize.OpenFile(filepath.Join(loc, WorkbookFileName))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cells := map[string]string{
		"G2": "0.10",
		"H2": "0.30",
		"G3": "12.345",
		"H3": "12.345",
		"H5": "12.645",
		"H6": "2000.00",
		"H7": "2012.645",
	}
	for cell, want := range cells {
		got, _ := f.GetCellValue(pricingSheet, cell)
		if got != want {
			t.Fatalf("cell %s: expected %q, got %q", cell, want, got)
		}
	}
	cost, _ := f.GetCellValue(testsSheet, "C2")
	if cost != "2000.00" {
		t.Fatalf("unexpected test cost %q", cost)
	}
}
