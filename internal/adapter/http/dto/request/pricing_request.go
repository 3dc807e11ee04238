package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"rfp_automation/internal/domain/entities"
)

var ErrInvalidLineItem = errors.New("invalid line item")

type LineItemRequest struct {
	ItemNo      int                    `json:"itemNo"`
	Description string                 `json:"description"`
	Quantity    float64                `json:"quantity"`
	SKU         string                 `json:"sku"`
	Specs       map[string]interface{} `json:"specs"`
}

type PricingRequest struct {
	RfpID     string            `json:"rfpId" binding:"required"`
	LineItems []LineItemRequest `json:"lineItems"`
	TestNames []string          `json:"testNames"`
}

// ToLineItems converts the payload. Missing item numbers default to the
// 1-based position.
func (r PricingRequest) ToLineItems() ([]entities.LineItem, error) {
	items := make([]entities.LineItem, 0, len(r.LineItems))
	for i, li := range r.LineItems {
		if li.Quantity < 0 {
			return nil, fmt.Errorf("%w: item %d has negative quantity", ErrInvalidLineItem, i+1)
		}
		item := entities.LineItem{
			ItemNo:      li.ItemNo,
			Description: strings.TrimSpace(li.Description),
			Quantity:    decimal.NewFromFloat(li.Quantity),
			SKU:         strings.TrimSpace(li.SKU),
		}
		if item.ItemNo == 0 {
			item.ItemNo = i + 1
		}
		if len(li.Specs) > 0 {
			item.Specs = entities.Specs{}
			for k, v := range li.Specs {
				switch t := v.(type) {
				case float64:
					item.Specs[k] = entities.NumericSpec(t)
				case string:
					item.Specs[k] = entities.CategoricalSpec(t)
				case nil:
				default:
					return nil, fmt.Errorf("%w: item %d spec %q must be a number or string", ErrInvalidLineItem, i+1, k)
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}
