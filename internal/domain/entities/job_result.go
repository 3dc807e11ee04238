package entities

import "time"

// ErrorKind names a terminal failure of a job.
type ErrorKind string

const (
	ErrorKindNoCandidateRfp       ErrorKind = "NoCandidateRfp"
	ErrorKindEmbeddingUnavailable ErrorKind = "EmbeddingUnavailable"
	ErrorKindMatchingFailed       ErrorKind = "MatchingFailed"
	ErrorKindPricingFailed        ErrorKind = "PricingFailed"
	ErrorKindInternal             ErrorKind = "Internal"
)

// JobError is the structured failure description kept on a Failed job.
type JobError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Details []string  `json:"details,omitempty"`
}

// WarningKind names a non-fatal condition carried inside a successful result.
type WarningKind string

const (
	WarningUnresolvedPricingItem WarningKind = "UnresolvedPricingItem"
	WarningUnknownTestName       WarningKind = "UnknownTestName"
	WarningDraftingDegraded      WarningKind = "DraftingDegraded"
)

type Warning struct {
	Kind        WarningKind `json:"kind"`
	Message     string      `json:"message"`
	ItemNumbers []int       `json:"itemNumbers,omitempty"`
	TestNames   []string    `json:"testNames,omitempty"`
}

// RfpDetails is the part of the selected RFP echoed back in the result.
type RfpDetails struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"dueDate,omitempty"`
	Source  string     `json:"source"`
	Summary string     `json:"summary"`
}

type ProcessingSummary struct {
	TotalRfpsScraped    int       `json:"totalRfpsScraped"`
	CandidatesFound     int       `json:"candidatesFound"`
	RequirementsMatched int       `json:"requirementsMatched"`
	ProductsMatched     int       `json:"productsMatched"`
	Warnings            []string  `json:"warnings"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// JobResult is the final package assembled at the Packaged stage.
type JobResult struct {
	RfpDetails        RfpDetails        `json:"rfpDetails"`
	SpecMatches       []MatchResult     `json:"specMatches"`
	Pricing           PriceBreakdown    `json:"pricing"`
	DraftResponse     *string           `json:"draftResponse"`
	Warnings          []Warning         `json:"warnings"`
	ProcessingSummary ProcessingSummary `json:"processingSummary"`
}

// MatchedProductCount is the number of (query, product) pairs in the result.
func (r JobResult) MatchedProductCount() int {
	n := 0
	for _, m := range r.SpecMatches {
		n += len(m.Matches)
	}
	return n
}
