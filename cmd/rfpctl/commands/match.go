package commands

import (
	"strings"

	"rfp_automation/internal/adapter/http/dto/response"

	"github.com/spf13/cobra"
)

func newMatchCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "match <requirement>",
		Args:  cobra.MinimumNArgs(1),
		Short: "Rank catalog entries against a free-text requirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			result, err := a.Matcher.Match(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), response.FromMatchResult(result))
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "number of matches (0 = default of 3)")
	return cmd
}
