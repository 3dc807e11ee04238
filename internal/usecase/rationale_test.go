package usecase

import (
	"testing"

	"rfp_automation/internal/domain/entities"
)

func TestExtractQuerySpecs(t *testing.T) {
	specs := extractQuerySpecs("Supply of 2.5 sqmm Copper XLPE cable, 27 A, 1.1 kV, 45 kg/km")

	want := map[string]float64{
		entities.SpecConductorAreaMm2:  2.5,
		entities.SpecCurrentRatingAmps: 27,
		entities.SpecVoltageRatingKv:   1.1,
		entities.SpecWeightKgPerKm:     45,
	}
	for name, v := range want {
		got, ok := specs[name]
		if !ok || got.Float() != v {
			t.Fatalf("%s: expected %v, got %+v", name, v, got)
		}
	}
	if specs[entities.SpecConductorMaterial].String() != "copper" {
		t.Fatalf("unexpected material %+v", specs[entities.SpecConductorMaterial])
	}
	if specs[entities.SpecInsulationMaterial].String() != "xlpe" {
		t.Fatalf("unexpected insulation %+v", specs[entities.SpecInsulationMaterial])
	}

	if len(extractQuerySpecs("general purpose cables")) != 0 {
		t.Fatalf("expected no specs")
	}
}

func TestDescribeMatch(t *testing.T) {
	entry := cable("c-1", 1.5, 10)

	tests := []struct {
		name string
		want entities.Specs
		out  string
	}{
		{
			name: "no specs",
			want: entities.Specs{},
			out:  "no explicit specification in requirement; ranked by semantic similarity",
		},
		{
			name: "aligned only",
			want: entities.Specs{entities.SpecConductorAreaMm2: entities.NumericSpec(1.5)},
			out:  "conductor area aligns",
		},
		{
			name: "mixed",
			want: entities.Specs{
				entities.SpecConductorAreaMm2:  entities.NumericSpec(1.5),
				entities.SpecCurrentRatingAmps: entities.NumericSpec(20),
				entities.SpecVoltageRatingKv:   entities.NumericSpec(1.1),
			},
			out: "conductor area aligns; current rating differs; voltage rating not listed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeMatch(tt.want, entry); got != tt.out {
				t.Fatalf("expected %q, got %q", tt.out, got)
			}
		})
	}
}

func TestJoinLabels(t *testing.T) {
	if got := joinLabels([]string{"a", "b", "c"}); got != "a, b and c" {
		t.Fatalf("unexpected %q", got)
	}
	if got := joinLabels([]string{"a"}); got != "a" {
		t.Fatalf("unexpected %q", got)
	}
}
