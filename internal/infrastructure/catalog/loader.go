package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
)

// numeric accepts JSON numbers, numeric strings and null.
type numeric struct {
	val *float64
}

func (n *numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", raw)
	}
	n.val = &v
	return nil
}

// catalogRecord is one row of the embeddings catalogue file.
type catalogRecord struct {
	RecordID            string                 `json:"record_id"`
	Name                string                 `json:"name"`
	ConductorArea       numeric                `json:"conductor_nominal_area_mm2"`
	CurrentRating       numeric                `json:"current_rating_amps"`
	OverallDiameter     numeric                `json:"approx_overall_diameter_mm"`
	Weight              numeric                `json:"overall_weight_kg_per_km"`
	InsulationThickness numeric                `json:"insulation_thickness_mm"`
	SheathThickness     numeric                `json:"outer_sheath_thickness_mm"`
	VoltageRating       numeric                `json:"voltage_rating_kv"`
	ConductorMaterial   string                 `json:"conductor_material"`
	InsulationMaterial  string                 `json:"insulation_material"`
	Specs               map[string]interface{} `json:"specs"`
	Embedding           []float64              `json:"embedding"`
	EmbeddingText       string                 `json:"embedding_text"`
}

type catalogFile struct {
	Records []catalogRecord `json:"records"`
}

// LoadFile reads a catalogue JSON file: either {"records": [...]} or a bare array.
func LoadFile(path string) ([]entities.CatalogEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]entities.CatalogEntry, error) {
	var records []catalogRecord
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("parse catalogue: %w", err)
		}
	} else {
		var f catalogFile
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("parse catalogue: %w", err)
		}
		records = f.Records
	}

	entries := make([]entities.CatalogEntry, 0, len(records))
	for i, rec := range records {
		e, err := rec.toEntry()
		if err != nil {
			return nil, fmt.Errorf("catalogue record %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r catalogRecord) toEntry() (entities.CatalogEntry, error) {
	id := strings.TrimSpace(r.RecordID)
	if id == "" {
		return entities.CatalogEntry{}, fmt.Errorf("missing record_id")
	}
	specs := entities.Specs{}
	for k, v := range r.Specs {
		switch t := v.(type) {
		case float64:
			specs[k] = entities.NumericSpec(t)
		case string:
			if s := strings.TrimSpace(t); s != "" {
				specs[k] = entities.CategoricalSpec(s)
			}
		case nil:
		default:
			return entities.CatalogEntry{}, fmt.Errorf("spec %q has unsupported type %T", k, v)
		}
	}
	setNumeric(specs, entities.SpecConductorAreaMm2, r.ConductorArea)
	setNumeric(specs, entities.SpecCurrentRatingAmps, r.CurrentRating)
	setNumeric(specs, entities.SpecOverallDiameterMm, r.OverallDiameter)
	setNumeric(specs, entities.SpecWeightKgPerKm, r.Weight)
	setNumeric(specs, entities.SpecInsulationThicknessMm, r.InsulationThickness)
	setNumeric(specs, entities.SpecSheathThicknessMm, r.SheathThickness)
	setNumeric(specs, entities.SpecVoltageRatingKv, r.VoltageRating)
	if s := strings.TrimSpace(r.ConductorMaterial); s != "" {
		specs[entities.SpecConductorMaterial] = entities.CategoricalSpec(s)
	}
	if s := strings.TrimSpace(r.InsulationMaterial); s != "" {
		specs[entities.SpecInsulationMaterial] = entities.CategoricalSpec(s)
	}

	e := entities.CatalogEntry{
		ID:        id,
		Name:      strings.TrimSpace(r.Name),
		Text:      strings.TrimSpace(r.EmbeddingText),
		Specs:     specs,
		Embedding: r.Embedding,
	}
	if e.Text == "" {
		e.Text = describe(e)
	}
	return e, nil
}

func setNumeric(specs entities.Specs, name string, n numeric) {
	if n.val != nil {
		specs[name] = entities.NumericSpec(*n.val)
	}
}

// describe renders the descriptive text an entry is embedded from, e.g.
// "1.5 sq mm cable. with 20 amps current rating, 8.2 mm diameter".
func describe(e entities.CatalogEntry) string {
	var components []string
	if v, ok := e.Specs[entities.SpecConductorAreaMm2]; ok {
		components = append(components, v.String()+" sq mm cable")
	} else if e.Name != "" {
		components = append(components, e.Name)
	}

	var specs []string
	if v, ok := e.Specs[entities.SpecCurrentRatingAmps]; ok {
		specs = append(specs, v.String()+" amps current rating")
	}
	if v, ok := e.Specs[entities.SpecOverallDiameterMm]; ok {
		specs = append(specs, v.String()+" mm diameter")
	}
	if v, ok := e.Specs[entities.SpecWeightKgPerKm]; ok {
		specs = append(specs, v.String()+" kg/km weight")
	}
	if len(specs) > 0 {
		components = append(components, "with "+strings.Join(specs, ", "))
	}

	var construction []string
	if v, ok := e.Specs[entities.SpecInsulationThicknessMm]; ok {
		construction = append(construction, v.String()+" mm insulation")
	}
	if v, ok := e.Specs[entities.SpecSheathThicknessMm]; ok {
		construction = append(construction, v.String()+" mm sheath")
	}
	if len(construction) > 0 {
		components = append(components, "construction: "+strings.Join(construction, ", "))
	}
	if len(components) == 0 {
		return e.ID
	}
	return strings.Join(components, ". ")
}

// embedBatchSize caps the texts sent per batch embedding request.
const embedBatchSize = 128

// BatchEmbedder is implemented by embedding functions that can embed many
// texts in one request.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbedMissing computes embeddings for entries loaded without one. Embedders
// implementing BatchEmbedder are called once per embedBatchSize entries.
func EmbedMissing(ctx context.Context, embedder interfaces.IEmbeddingFunction, entries []entities.CatalogEntry) (int, error) {
	var pending []int
	for i := range entries {
		if len(entries[i].Embedding) == 0 {
			pending = append(pending, i)
		}
	}
	batcher, ok := embedder.(BatchEmbedder)
	if !ok {
		for n, i := range pending {
			vec, err := embedder.Embed(ctx, entries[i].Text)
			if err != nil {
				return n, fmt.Errorf("embed catalog entry %s: %w", entries[i].ID, err)
			}
			entries[i].Embedding = vec
		}
		return len(pending), nil
	}

	n := 0
	for start := 0; start < len(pending); start += embedBatchSize {
		chunk := pending[start:min(start+embedBatchSize, len(pending))]
		texts := make([]string, len(chunk))
		for j, i := range chunk {
			texts[j] = entries[i].Text
		}
		vecs, err := batcher.EmbedBatch(ctx, texts)
		if err != nil {
			return n, fmt.Errorf("embed catalog entries %s..%s: %w", entries[chunk[0]].ID, entries[chunk[len(chunk)-1]].ID, err)
		}
		if len(vecs) != len(chunk) {
			return n, fmt.Errorf("embed catalog batch: got %d vectors for %d entries", len(vecs), len(chunk))
		}
		for j, i := range chunk {
			entries[i].Embedding = vecs[j]
		}
		n += len(chunk)
	}
	return n, nil
}

// DropMismatchedEmbeddings clears stored embeddings whose length is not dims,
// so EmbedMissing recomputes them with the live model. It returns how many
// were cleared.
func DropMismatchedEmbeddings(entries []entities.CatalogEntry, dims int) int {
	n := 0
	for i := range entries {
		if len(entries[i].Embedding) > 0 && len(entries[i].Embedding) != dims {
			entries[i].Embedding = nil
			n++
		}
	}
	return n
}
