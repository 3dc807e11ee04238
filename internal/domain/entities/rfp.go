package entities

import "time"

// RequirementLine is one technical requirement stated by the RFP.
// Quantity is optional; the pipeline falls back to its configured default.
type RequirementLine struct {
	Text     string   `json:"text"`
	Quantity *float64 `json:"quantity,omitempty"`
}

// RfpDocument is the already-selected RFP handed to the pipeline by the source provider.
type RfpDocument struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	DueDate      *time.Time        `json:"dueDate,omitempty"`
	Link         string            `json:"link"`
	Summary      string            `json:"summary"`
	Description  string            `json:"description"`
	Requirements []RequirementLine `json:"requirements,omitempty"`
	Tests        []string          `json:"tests,omitempty"`

	// Upstream counters, reported in the processing summary.
	TotalScraped    int `json:"totalScraped"`
	CandidatesFound int `json:"candidatesFound"`
}

func (d RfpDocument) Details() RfpDetails {
	return RfpDetails{
		ID:      d.ID,
		Title:   d.Title,
		DueDate: d.DueDate,
		Source:  d.Link,
		Summary: d.Summary,
	}
}

// DraftFacts is everything the response drafter is given.
type DraftFacts struct {
	Rfp     RfpDocument
	Matches []MatchResult
	Pricing PriceBreakdown
}
