package commands

import (
	"context"
	"encoding/json"
	"io"

	"rfp_automation/internal/app"
	"rfp_automation/internal/infrastructure/config"
	"rfp_automation/internal/platform/logger"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rfpctl",
		Short:         "Run the RFP pipeline and its stages from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newRunCommand(),
		newMatchCommand(),
		newPriceCommand(),
	)

	return rootCmd
}

// bootstrap wires the application from the environment. The CLI always keeps
// jobs in memory.
func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.JobStore = config.JobStoreMemory

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
