package response

import (
	"time"

	"rfp_automation/internal/domain/entities"
)

type SubmitJobResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

func FromSubmittedJob(j entities.Job) SubmitJobResponse {
	return SubmitJobResponse{JobID: j.ID, Status: "processing"}
}

type JobErrorResponse struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ApprovalResponse struct {
	Approved        bool      `json:"approved"`
	Comments        string    `json:"comments"`
	DecidedAt       time.Time `json:"decidedAt"`
	PackageLocation string    `json:"packageLocation,omitempty"`
}

type JobStatusResponse struct {
	JobID           string            `json:"jobId"`
	Stage           string            `json:"stage"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	CancelRequested bool              `json:"cancelRequested,omitempty"`
	Error           *JobErrorResponse `json:"error,omitempty"`
	Approval        *ApprovalResponse `json:"approval,omitempty"`
}

func FromJobStatus(j entities.Job) JobStatusResponse {
	res := JobStatusResponse{
		JobID:           j.ID,
		Stage:           string(j.Stage),
		Status:          string(j.Status),
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		CancelRequested: j.CancelRequested,
	}
	if j.Error != nil {
		res.Error = &JobErrorResponse{Kind: string(j.Error.Kind), Message: j.Error.Message, Details: j.Error.Details}
	}
	if j.Approval != nil {
		res.Approval = &ApprovalResponse{
			Approved:        j.Approval.Approved,
			Comments:        j.Approval.Comments,
			DecidedAt:       j.Approval.DecidedAt,
			PackageLocation: j.Approval.PackageLocation,
		}
	}
	return res
}

type RfpDetailsResponse struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"dueDate,omitempty"`
	Source  string     `json:"source"`
	Summary string     `json:"summary"`
}

// SpecMatchProductResponse is one (query, product) pair of the flattened match list.
type SpecMatchProductResponse struct {
	Query          string          `json:"query"`
	MatchScore     float64         `json:"matchScore"`
	Product        ProductResponse `json:"product"`
	Recommendation string          `json:"recommendation"`
	Rationale      string          `json:"rationale"`
}

type SpecMatchesResponse struct {
	Count    int                        `json:"count"`
	Products []SpecMatchProductResponse `json:"products"`
}

type ProcessingSummaryResponse struct {
	TotalRfpsScraped    int       `json:"totalRfpsScraped"`
	CandidatesFound     int       `json:"candidatesFound"`
	RequirementsMatched int       `json:"requirementsMatched"`
	ProductsMatched     int       `json:"productsMatched"`
	Warnings            []string  `json:"warnings"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

type JobResultResponse struct {
	JobID             string                    `json:"jobId"`
	Status            string                    `json:"status"`
	RfpDetails        RfpDetailsResponse        `json:"rfpDetails"`
	SpecMatches       SpecMatchesResponse       `json:"specMatches"`
	Pricing           PriceBreakdownResponse    `json:"pricing"`
	DraftResponse     *string                   `json:"draftResponse"`
	Warnings          []WarningResponse         `json:"warnings"`
	ProcessingSummary ProcessingSummaryResponse `json:"processingSummary"`
	Approval          *ApprovalResponse         `json:"approval,omitempty"`
}

// FromJobResult renders a Completed job. The caller checks Result != nil.
func FromJobResult(j entities.Job) JobResultResponse {
	r := j.Result
	products := make([]SpecMatchProductResponse, 0, r.MatchedProductCount())
	for _, mr := range r.SpecMatches {
		for _, m := range mr.Matches {
			products = append(products, SpecMatchProductResponse{
				Query:          mr.Query,
				MatchScore:     m.Score,
				Product:        FromCatalogEntry(m.Entry),
				Recommendation: m.Entry.Recommendation(),
				Rationale:      m.Rationale,
			})
		}
	}
	summaryWarnings := r.ProcessingSummary.Warnings
	if summaryWarnings == nil {
		summaryWarnings = []string{}
	}

	res := JobResultResponse{
		JobID:  j.ID,
		Status: string(j.Status),
		RfpDetails: RfpDetailsResponse{
			ID:      r.RfpDetails.ID,
			Title:   r.RfpDetails.Title,
			DueDate: r.RfpDetails.DueDate,
			Source:  r.RfpDetails.Source,
			Summary: r.RfpDetails.Summary,
		},
		SpecMatches:   SpecMatchesResponse{Count: len(products), Products: products},
		Pricing:       FromPriceBreakdown(r.Pricing),
		DraftResponse: r.DraftResponse,
		Warnings:      FromWarnings(r.Warnings),
		ProcessingSummary: ProcessingSummaryResponse{
			TotalRfpsScraped:    r.ProcessingSummary.TotalRfpsScraped,
			CandidatesFound:     r.ProcessingSummary.CandidatesFound,
			RequirementsMatched: r.ProcessingSummary.RequirementsMatched,
			ProductsMatched:     r.ProcessingSummary.ProductsMatched,
			Warnings:            summaryWarnings,
			GeneratedAt:         r.ProcessingSummary.GeneratedAt,
		},
	}
	if j.Approval != nil {
		res.Approval = FromJobStatus(j).Approval
	}
	return res
}
