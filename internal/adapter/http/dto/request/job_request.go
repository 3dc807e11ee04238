package request

import (
	"strings"

	"rfp_automation/internal/domain/entities"
)

type JobOverridesRequest struct {
	TopK            int      `json:"topK"`
	MaxRequirements int      `json:"maxRequirements"`
	DefaultQuantity *float64 `json:"defaultQuantity"`
	TestNames       []string `json:"testNames"`
}

// SubmitJobRequest starts a pipeline run. Every field is optional.
type SubmitJobRequest struct {
	SourceHints []string             `json:"sourceHints"`
	Overrides   *JobOverridesRequest `json:"overrides"`
}

func (r SubmitJobRequest) ToOptions() entities.JobOptions {
	opts := entities.JobOptions{SourceHints: r.SourceHints}
	if r.Overrides != nil {
		opts.Overrides = entities.JobOverrides{
			TopK:            r.Overrides.TopK,
			MaxRequirements: r.Overrides.MaxRequirements,
			DefaultQuantity: r.Overrides.DefaultQuantity,
			TestNames:       r.Overrides.TestNames,
		}
	}
	return opts
}

type ApproveRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Comments string `json:"comments"`
}

func (r ApproveRequest) ResolveComments() string {
	return strings.TrimSpace(r.Comments)
}
