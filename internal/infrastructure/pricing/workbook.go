package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"rfp_automation/internal/domain/entities"
)

const (
	ProductSheet = "Product_Prices"
	TestSheet    = "Test_Prices"
)

var (
	productHeaders = []string{"SKU_ID", "Product_Name", "Base_Price", "Unit_of_Measure", "Product_Type"}
	testHeaders    = []string{"Test_Name", "Test_Type", "Unit_Cost", "Duration (days)"}
)

// specColumns maps normalized optional header names to attribute names.
var specColumns = map[string]string{
	"conductorareamm2":      entities.SpecConductorAreaMm2,
	"conductornominalarea":  entities.SpecConductorAreaMm2,
	"currentratingamps":     entities.SpecCurrentRatingAmps,
	"overalldiametermm":     entities.SpecOverallDiameterMm,
	"weightkgperkm":         entities.SpecWeightKgPerKm,
	"insulationthicknessmm": entities.SpecInsulationThicknessMm,
	"sheaththicknessmm":     entities.SpecSheathThicknessMm,
	"voltageratingkv":       entities.SpecVoltageRatingKv,
	"conductormaterial":     entities.SpecConductorMaterial,
	"insulationmaterial":    entities.SpecInsulationMaterial,
}

// LoadWorkbook reads the Product_Prices and Test_Prices sheets.
func LoadWorkbook(path string) ([]entities.ProductPrice, []entities.TestPrice, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open pricing workbook: %w", err)
	}
	defer f.Close()

	productRows, err := f.GetRows(ProductSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", ProductSheet, err)
	}
	products, err := parseProducts(productRows)
	if err != nil {
		return nil, nil, err
	}

	testRows, err := f.GetRows(TestSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", TestSheet, err)
	}
	tests, err := parseTests(testRows)
	if err != nil {
		return nil, nil, err
	}
	return products, tests, nil
}

func parseProducts(rows [][]string) ([]entities.ProductPrice, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := headerIndex(ProductSheet, rows[0], productHeaders)
	if err != nil {
		return nil, err
	}
	specCols := map[int]string{}
	for i, h := range rows[0] {
		if name, ok := specColumns[normalizeHeader(h)]; ok {
			specCols[i] = name
		}
	}

	products := make([]entities.ProductPrice, 0, len(rows)-1)
	for n, row := range rows[1:] {
		sku := cell(row, cols["SKU_ID"])
		name := cell(row, cols["Product_Name"])
		if sku == "" && name == "" {
			continue
		}
		price, err := decimal.NewFromString(cell(row, cols["Base_Price"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid Base_Price %q", ProductSheet, n+2, cell(row, cols["Base_Price"]))
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%s row %d: negative Base_Price", ProductSheet, n+2)
		}
		p := entities.ProductPrice{
			SKU:         sku,
			Name:        name,
			Unit:        cell(row, cols["Unit_of_Measure"]),
			ProductType: cell(row, cols["Product_Type"]),
			BasePrice:   price,
		}
		for i, attr := range specCols {
			raw := cell(row, i)
			if raw == "" {
				continue
			}
			if p.Specs == nil {
				p.Specs = entities.Specs{}
			}
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				p.Specs[attr] = entities.NumericSpec(v)
			} else {
				p.Specs[attr] = entities.CategoricalSpec(raw)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

func parseTests(rows [][]string) ([]entities.TestPrice, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := headerIndex(TestSheet, rows[0], testHeaders)
	if err != nil {
		return nil, err
	}
	tests := make([]entities.TestPrice, 0, len(rows)-1)
	for n, row := range rows[1:] {
		name := cell(row, cols["Test_Name"])
		if name == "" {
			continue
		}
		cost, err := decimal.NewFromString(cell(row, cols["Unit_Cost"]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid Unit_Cost %q", TestSheet, n+2, cell(row, cols["Unit_Cost"]))
		}
		days := 0
		if raw := cell(row, cols["Duration (days)"]); raw != "" {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid duration %q", TestSheet, n+2, raw)
			}
			days = int(f)
		}
		tests = append(tests, entities.TestPrice{
			Name:         name,
			Type:         cell(row, cols["Test_Type"]),
			Cost:         cost,
			DurationDays: days,
		})
	}
	return tests, nil
}

func headerIndex(sheet string, header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, want := range required {
			if strings.EqualFold(h, want) {
				idx[want] = i
			}
		}
	}
	for _, want := range required {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", sheet, want)
		}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WriteWorkbook saves a ledger in the layout LoadWorkbook reads.
func WriteWorkbook(path string, products []entities.ProductPrice, tests []entities.TestPrice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(TestSheet); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(productHeaders))
	for _, h := range productHeaders {
		header = append(header, h)
	}
	attrs := []string{
		entities.SpecConductorAreaMm2,
		entities.SpecCurrentRatingAmps,
		entities.SpecConductorMaterial,
		entities.SpecVoltageRatingKv,
	}
	for _, a := range attrs {
		header = append(header, a)
	}
	if err := f.SetSheetRow(ProductSheet, "A1", &header); err != nil {
		return err
	}
	for i, p := range products {
		row := []interface{}{p.SKU, p.Name, p.BasePrice.String(), p.Unit, p.ProductType}
		for _, a := range attrs {
			if v, ok := p.Specs[a]; ok {
				row = append(row, v.String())
			} else {
				row = append(row, "")
			}
		}
		c, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ProductSheet, c, &row); err != nil {
			return err
		}
	}

	theader := []interface{}{testHeaders[0], testHeaders[1], testHeaders[2], testHeaders[3]}
	if err := f.SetSheetRow(TestSheet, "A1", &theader); err != nil {
		return err
	}
	for i, t := range tests {
		row := []interface{}{t.Name, t.Type, t.Cost.String(), t.DurationDays}
		c, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(TestSheet, c, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
