package usecase

import (
	"strings"

	"rfp_automation/internal/domain/entities"
)

var electricalKeywords = []string{"cable", "wire", "conductor", "power", "electrical", "voltage"}

// requirementLines returns the technical requirement lines of an RFP, at most max.
// RFPs without explicit lines get queries derived from their description.
func requirementLines(doc entities.RfpDocument, max int) []entities.RequirementLine {
	var lines []entities.RequirementLine
	for _, r := range doc.Requirements {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		r.Text = strings.TrimSpace(r.Text)
		lines = append(lines, r)
	}
	if len(lines) == 0 {
		for _, q := range deriveQueries(doc.Description + " " + doc.Summary + " " + doc.Title) {
			lines = append(lines, entities.RequirementLine{Text: q})
		}
	}
	if max > 0 && len(lines) > max {
		lines = lines[:max]
	}
	return lines
}

func deriveQueries(text string) []string {
	lower := strings.ToLower(text)
	for _, kw := range electricalKeywords {
		if strings.Contains(lower, kw) {
			return []string{
				"high current rating cables for industrial use",
				"1.5 sq mm to 10 sq mm electrical cables",
				"heavy duty power cables with insulation",
			}
		}
	}
	return []string{"general purpose electrical cables"}
}
