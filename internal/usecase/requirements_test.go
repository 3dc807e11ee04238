package usecase

import (
	"testing"

	"rfp_automation/internal/domain/entities"
)

func TestRequirementLines(t *testing.T) {
	qty := 100.0

	t.Run("explicit lines trimmed and capped", func(t *testing.T) {
		doc := entities.RfpDocument{Requirements: []entities.RequirementLine{
			{Text: " 1.5 sq mm cable ", Quantity: &qty},
			{Text: "   "},
			{Text: "4 sq mm cable"},
			{Text: "10 sq mm cable"},
		}}
		lines := requirementLines(doc, 2)
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if lines[0].Text != "1.5 sq mm cable" || lines[0].Quantity == nil || *lines[0].Quantity != 100 {
			t.Fatalf("unexpected first line %+v", lines[0])
		}
		if lines[1].Text != "4 sq mm cable" {
			t.Fatalf("blank line should be skipped, got %+v", lines[1])
		}
	})

	t.Run("derived from description", func(t *testing.T) {
		doc := entities.RfpDocument{Title: "Supply of LT power cables"}
		lines := requirementLines(doc, 0)
		if len(lines) != 3 || lines[0].Text != "high current rating cables for industrial use" {
			t.Fatalf("unexpected derived lines %+v", lines)
		}
	})

	t.Run("fallback query", func(t *testing.T) {
		lines := requirementLines(entities.RfpDocument{Title: "Office furniture"}, 5)
		if len(lines) != 1 || lines[0].Text != "general purpose electrical cables" {
			t.Fatalf("unexpected fallback %+v", lines)
		}
	})
}
