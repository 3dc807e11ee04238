package response

import "rfp_automation/internal/domain/entities"

type ProductResponse struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name,omitempty"`
	Specs map[string]interface{} `json:"specs"`
}

type MatchResponse struct {
	Product        ProductResponse `json:"product"`
	MatchScore     float64         `json:"matchScore"`
	Recommendation string          `json:"recommendation"`
	Rationale      string          `json:"rationale"`
}

type MatchResultResponse struct {
	Query   string          `json:"query"`
	Matches []MatchResponse `json:"matches"`
}

type CatalogResponse struct {
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
	Entries []ProductResponse `json:"entries"`
}

func FromCatalogEntry(e entities.CatalogEntry) ProductResponse {
	specs := make(map[string]interface{}, len(e.Specs))
	for k, v := range e.Specs {
		if v.IsNumeric() {
			specs[k] = v.Float()
		} else {
			specs[k] = v.Text
		}
	}
	return ProductResponse{ID: e.ID, Name: e.Name, Specs: specs}
}

func FromMatchResult(r entities.MatchResult) MatchResultResponse {
	res := MatchResultResponse{Query: r.Query, Matches: make([]MatchResponse, 0, len(r.Matches))}
	for _, m := range r.Matches {
		res.Matches = append(res.Matches, MatchResponse{
			Product:        FromCatalogEntry(m.Entry),
			MatchScore:     m.Score,
			Recommendation: m.Entry.Recommendation(),
			Rationale:      m.Rationale,
		})
	}
	return res
}

func FromCatalog(entries []entities.CatalogEntry, total, limit, offset int) CatalogResponse {
	res := CatalogResponse{Total: total, Limit: limit, Offset: offset, Entries: make([]ProductResponse, 0, len(entries))}
	for _, e := range entries {
		res.Entries = append(res.Entries, FromCatalogEntry(e))
	}
	return res
}
