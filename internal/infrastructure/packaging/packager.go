package packaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
)

const (
	ResponseFileName = "rfp_final_response.json"
	WorkbookFileName = "rfp_final_response.xlsx"
)

var ErrNoResult = errors.New("job has no result to package")

// Packager writes the approved response package to <dir>/<jobID>/.
type Packager struct {
	dir string
}

var _ interfaces.IDocumentPackager = (*Packager)(nil)

func NewPackager(dir string) *Packager {
	if dir == "" {
		dir = "./packages"
	}
	return &Packager{dir: dir}
}

type packageFile struct {
	JobID    string            `json:"jobId"`
	Approval entities.Approval `json:"approval"`
	entities.JobResult
}

// Package returns the directory holding the package files.
func (p *Packager) Package(ctx context.Context, job entities.Job, approval entities.Approval) (string, error) {
	if job.Result == nil {
		return "", ErrNoResult
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out := filepath.Join(p.dir, job.ID)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", fmt.Errorf("create package dir: %w", err)
	}

	raw, err := json.MarshalIndent(packageFile{JobID: job.ID, Approval: approval, JobResult: *job.Result}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode package: %w", err)
	}
	if err := os.WriteFile(filepath.Join(out, ResponseFileName), raw, 0o644); err != nil {
		return "", fmt.Errorf("write package: %w", err)
	}
	if err := writeWorkbook(filepath.Join(out, WorkbookFileName), *job.Result); err != nil {
		return "", fmt.Errorf("write package workbook: %w", err)
	}
	return out, nil
}

const (
	pricingSheet = "Pricing"
	testsSheet   = "Tests"
	matchesSheet = "Matches"
)

// amount renders a money value exactly, padded to two decimals when that
// loses nothing.
func amount(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}

func writeWorkbook(path string, r entities.JobResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", pricingSheet); err != nil {
		return err
	}
	for _, s := range []string{testsSheet, matchesSheet} {
		if _, err := f.NewSheet(s); err != nil {
			return err
		}
	}

	pricing := [][]interface{}{{"Item No", "Description", "SKU", "Product", "Quantity", "Unit", "Unit Price", "Total Price", "Resolution"}}
	for _, it := range r.Pricing.Items {
		pricing = append(pricing, []interface{}{
			it.ItemNo, it.Description, it.SKU, it.ProductName,
			it.Quantity.String(), it.Unit, amount(it.UnitPrice), amount(it.TotalPrice),
			string(it.Resolution),
		})
	}
	pricing = append(pricing,
		[]interface{}{},
		[]interface{}{"", "Total material cost", "", "", "", "", "", amount(r.Pricing.TotalMaterialCost)},
		[]interface{}{"", "Total test cost", "", "", "", "", "", amount(r.Pricing.TotalTestCost)},
		[]interface{}{"", "Grand total", "", "", "", "", "", amount(r.Pricing.GrandTotal)},
	)

	tests := [][]interface{}{{"Test Name", "Type", "Cost", "Duration (days)", "Known"}}
	for _, t := range r.Pricing.Tests {
		tests = append(tests, []interface{}{t.Name, t.Type, amount(t.Cost), t.DurationDays, t.Known})
	}

	matches := [][]interface{}{{"Query", "Rank", "Entry ID", "Recommendation", "Score", "Rationale"}}
	for _, m := range r.SpecMatches {
		for i, hit := range m.Matches {
			matches = append(matches, []interface{}{m.Query, i + 1, hit.Entry.ID, hit.Entry.Recommendation(), hit.Score, hit.Rationale})
		}
	}

	for sheet, rows := range map[string][][]interface{}{pricingSheet: pricing, testsSheet: tests, matchesSheet: matches} {
		for i := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(pricingSheet, "B", "B", 36)
	_ = f.SetColWidth(matchesSheet, "A", "A", 40)
	_ = f.SetColWidth(matchesSheet, "F", "F", 60)
	return f.SaveAs(path)
}
