package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Well-known specification attributes of cable catalog entries.
const (
	SpecConductorAreaMm2      = "conductorAreaMm2"
	SpecCurrentRatingAmps     = "currentRatingAmps"
	SpecOverallDiameterMm     = "overallDiameterMm"
	SpecWeightKgPerKm         = "weightKgPerKm"
	SpecInsulationThicknessMm = "insulationThicknessMm"
	SpecSheathThicknessMm     = "sheathThicknessMm"
	SpecVoltageRatingKv       = "voltageRatingKv"
	SpecConductorMaterial     = "conductorMaterial"
	SpecInsulationMaterial    = "insulationMaterial"
	SpecProductType           = "productType"
)

// SpecValue is either numeric or categorical.
type SpecValue struct {
	Number *float64 `json:"number,omitempty"`
	Text   string   `json:"text,omitempty"`
}

func NumericSpec(v float64) SpecValue {
	return SpecValue{Number: &v}
}

func CategoricalSpec(s string) SpecValue {
	return SpecValue{Text: strings.TrimSpace(s)}
}

func (v SpecValue) IsNumeric() bool {
	return v.Number != nil
}

func (v SpecValue) Float() float64 {
	if v.Number == nil {
		return 0
	}
	return *v.Number
}

func (v SpecValue) String() string {
	if v.Number != nil {
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	}
	return v.Text
}

// Specs maps attribute names to values.
type Specs map[string]SpecValue

// Keys returns attribute names in ascending order.
func (s Specs) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Specs) Clone() Specs {
	if s == nil {
		return nil
	}
	out := make(Specs, len(s))
	for k, v := range s {
		if v.Number != nil {
			n := *v.Number
			v.Number = &n
		}
		out[k] = v
	}
	return out
}

// CatalogEntry is an immutable product record. Entries are loaded once and
// shared read-only between jobs.
type CatalogEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Text      string    `json:"text,omitempty"`
	Specs     Specs     `json:"specs"`
	Embedding []float64 `json:"-"`
}

// Recommendation renders the short product line shown next to a match.
func (e CatalogEntry) Recommendation() string {
	area, hasArea := e.Specs[SpecConductorAreaMm2]
	amps, hasAmps := e.Specs[SpecCurrentRatingAmps]
	switch {
	case hasArea && hasAmps:
		return fmt.Sprintf("%s sq mm cable, %s amps", area, amps)
	case hasArea:
		return fmt.Sprintf("%s sq mm cable", area)
	case e.Name != "":
		return e.Name
	default:
		return e.ID
	}
}

// ScoredEntry is one nearest-neighbor hit, score normalized to [0,1].
type ScoredEntry struct {
	Entry CatalogEntry
	Score float64
}
