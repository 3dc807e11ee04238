package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"rfp_automation/internal/domain/entities"
)

var (
	reArea     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:sq\.?\s*mm|sqmm|mm2|mm²)`)
	reAmps     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:a|amp|amps|ampere|amperes)\b`)
	reKv       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*kv\b`)
	reWeight   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*kg\s*/\s*km`)
	reDiameter = regexp.MustCompile(`(?:diameter|od)\D{0,12}(\d+(?:\.\d+)?)\s*mm`)
)

var attributeLabels = map[string]string{
	entities.SpecConductorAreaMm2:      "conductor area",
	entities.SpecCurrentRatingAmps:     "current rating",
	entities.SpecOverallDiameterMm:     "overall diameter",
	entities.SpecWeightKgPerKm:         "weight",
	entities.SpecInsulationThicknessMm: "insulation thickness",
	entities.SpecSheathThicknessMm:     "sheath thickness",
	entities.SpecVoltageRatingKv:       "voltage rating",
	entities.SpecConductorMaterial:     "conductor material",
	entities.SpecInsulationMaterial:    "insulation material",
	entities.SpecProductType:           "product type",
}

// alignedCloseness is the closeness from which an attribute counts as aligned.
const alignedCloseness = 0.95

// extractQuerySpecs pulls the specification values a free-text requirement
// states explicitly, e.g. "1.5 sq mm cable, 20 amps".
func extractQuerySpecs(query string) entities.Specs {
	q := strings.ToLower(query)
	specs := entities.Specs{}
	numeric := []struct {
		re   *regexp.Regexp
		name string
	}{
		{reArea, entities.SpecConductorAreaMm2},
		{reAmps, entities.SpecCurrentRatingAmps},
		{reKv, entities.SpecVoltageRatingKv},
		{reWeight, entities.SpecWeightKgPerKm},
		{reDiameter, entities.SpecOverallDiameterMm},
	}
	for _, n := range numeric {
		m := n.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			specs[n.name] = entities.NumericSpec(v)
		}
	}
	switch {
	case strings.Contains(q, "copper"):
		specs[entities.SpecConductorMaterial] = entities.CategoricalSpec("copper")
	case strings.Contains(q, "aluminium"), strings.Contains(q, "aluminum"):
		specs[entities.SpecConductorMaterial] = entities.CategoricalSpec("aluminium")
	}
	switch {
	case strings.Contains(q, "xlpe"):
		specs[entities.SpecInsulationMaterial] = entities.CategoricalSpec("xlpe")
	case strings.Contains(q, "pvc"):
		specs[entities.SpecInsulationMaterial] = entities.CategoricalSpec("pvc")
	}
	return specs
}

// describeMatch renders the rationale of a match from the attribute deltas
// between what the query asks for and what the entry offers.
func describeMatch(want entities.Specs, entry entities.CatalogEntry) string {
	if len(want) == 0 {
		return "no explicit specification in requirement; ranked by semantic similarity"
	}
	deltas, _ := entities.CompareSpecs(want, entry.Specs)

	var aligned, differ, missing []string
	for _, d := range deltas {
		label := attributeLabel(d.Name)
		switch {
		case !d.Present:
			missing = append(missing, label)
		case d.Closeness >= alignedCloseness:
			aligned = append(aligned, label)
		default:
			differ = append(differ, label)
		}
	}

	var parts []string
	if len(aligned) > 0 {
		parts = append(parts, joinLabels(aligned)+verb(len(aligned), " aligns", " align"))
	}
	if len(differ) > 0 {
		parts = append(parts, joinLabels(differ)+verb(len(differ), " differs", " differ"))
	}
	if len(missing) > 0 {
		parts = append(parts, joinLabels(missing)+" not listed")
	}
	return strings.Join(parts, "; ")
}

func attributeLabel(name string) string {
	if l, ok := attributeLabels[name]; ok {
		return l
	}
	return name
}

func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
}

func verb(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
