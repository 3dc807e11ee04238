package request

import (
	"errors"
	"strings"
)

var ErrInvalidTopK = errors.New("topK must be >= 1")

type MatchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  *int   `json:"topK"`
}

func (r MatchRequest) ResolveQuery() string {
	return strings.TrimSpace(r.Query)
}

// ResolveTopK returns 0 when topK is omitted, which selects the default.
func (r MatchRequest) ResolveTopK() (int, error) {
	if r.TopK == nil {
		return 0, nil
	}
	if *r.TopK < 1 {
		return 0, ErrInvalidTopK
	}
	return *r.TopK, nil
}
