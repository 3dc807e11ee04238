package commands

import (
	"context"
	"fmt"
	"time"

	"rfp_automation/internal/adapter/http/dto/response"
	"rfp_automation/internal/domain/entities"

	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var (
		hints    []string
		topK     int
		approve  bool
		comments string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Args:  cobra.NoArgs,
		Short: "Run one pipeline job to completion and print its result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			job, err := a.Pipeline.Submit(ctx, entities.JobOptions{
				SourceHints: hints,
				Overrides:   entities.JobOverrides{TopK: topK},
			})
			if err != nil {
				return err
			}

			job, err = waitForJob(ctx, a.Pipeline.Status, job.ID)
			if err != nil {
				return err
			}
			if job.Status != entities.JobStatusCompleted || job.Result == nil {
				return printJSON(cmd.OutOrStdout(), response.FromJobStatus(job))
			}

			if approve {
				if job, err = a.Pipeline.Approve(ctx, job.ID, true, comments); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "package written to %s\n", job.Approval.PackageLocation)
			}
			return printJSON(cmd.OutOrStdout(), response.FromJobResult(job))
		},
	}

	cmd.Flags().StringSliceVar(&hints, "hint", nil, "source link prefix to restrict the RFP search (repeatable)")
	cmd.Flags().IntVar(&topK, "top-k", 0, "matches kept per requirement (0 = configured default)")
	cmd.Flags().BoolVar(&approve, "approve", false, "approve the completed job and write the response package")
	cmd.Flags().StringVar(&comments, "comments", "", "approval comments")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall time limit")

	return cmd
}

type statusFunc func(ctx context.Context, jobID string) (entities.Job, error)

func waitForJob(ctx context.Context, status statusFunc, jobID string) (entities.Job, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		job, err := status(ctx, jobID)
		if err != nil {
			return entities.Job{}, err
		}
		if job.Status.IsTerminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, fmt.Errorf("job %s still %s at stage %s: %w", jobID, job.Status, job.Stage, ctx.Err())
		case <-ticker.C:
		}
	}
}
