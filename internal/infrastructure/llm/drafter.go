package llm

import (
	"context"
	"fmt"
	"strings"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
)

const draftSystemPrompt = "You are a professional sales proposal writer for an industrial cable supplier."

// Drafter writes the cover response email for a processed RFP.
type Drafter struct {
	client *Client
}

var _ interfaces.IResponseDrafter = (*Drafter)(nil)

func NewDrafter(client *Client) *Drafter {
	return &Drafter{client: client}
}

func (d *Drafter) Draft(ctx context.Context, facts entities.DraftFacts) (string, error) {
	return d.client.Chat(ctx, draftSystemPrompt, draftPrompt(facts))
}

func draftPrompt(f entities.DraftFacts) string {
	var b strings.Builder
	b.WriteString("Given the RFP below, generate a concise cover response (2-3 paragraphs) that:\n")
	b.WriteString("- Acknowledges the RFP\n")
	b.WriteString("- Summarizes why our company is a fit\n")
	b.WriteString("- Mentions key delivery/testing/acceptance highlights\n\n")

	fmt.Fprintf(&b, "RFP Title: %s\n", f.Rfp.Title)
	if f.Rfp.DueDate != nil {
		fmt.Fprintf(&b, "Due: %s\n", f.Rfp.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Summary: %s\n", f.Rfp.Summary)

	if len(f.Matches) > 0 {
		b.WriteString("\nProposed products:\n")
		for _, m := range f.Matches {
			best, ok := m.Best()
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", m.Query, best.Entry.Recommendation())
		}
	}
	if len(f.Pricing.Tests) > 0 {
		names := make([]string, 0, len(f.Pricing.Tests))
		for _, t := range f.Pricing.Tests {
			names = append(names, t.Name)
		}
		fmt.Fprintf(&b, "Tests included: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "Grand total: %s\n", f.Pricing.GrandTotal.StringFixed(2))

	b.WriteString("\nWrite the response as a formal email body (no signatures).")
	return b.String()
}
