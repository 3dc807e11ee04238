package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"rfp_automation/internal/adapter/http/dto/request"
	"rfp_automation/internal/adapter/http/dto/response"

	"github.com/spf13/cobra"
)

func newPriceCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "price",
		Args:  cobra.NoArgs,
		Short: "Price a JSON pricing request against the workbook ledger",
		Long:  `Reads a file shaped like the POST /v1/pricing body: {"rfpId": "...", "lineItems": [...], "testNames": [...]}.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := readPricingRequest(input)
			if err != nil {
				return err
			}
			items, err := req.ToLineItems()
			if err != nil {
				return err
			}

			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			breakdown, err := a.Pricing.Price(cmd.Context(), req.RfpID, items, req.TestNames)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), response.FromPriceBreakdown(breakdown))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "pricing request JSON file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readPricingRequest(path string) (request.PricingRequest, error) {
	var req request.PricingRequest
	raw, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode %s: %w", path, err)
	}
	return req, nil
}
