package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/usecase/interfaces"
)

var (
	ErrInvalidK         = errors.New("k must be >= 1")
	ErrMissingEmbedding = errors.New("catalog entry has no embedding")
	ErrDuplicateEntry   = errors.New("duplicate catalog entry id")
)

type snapshot struct {
	entries []entities.CatalogEntry
	dims    int
}

// Index is an in-memory CatalogIndex. Readers always see one complete
// snapshot; Replace installs a new one atomically.
type Index struct {
	snap       atomic.Pointer[snapshot]
	similarity SimilarityFunc
	scorer     Scorer
}

type Option func(*Index)

// WithSimilarity swaps the vector similarity. The default is CosineSimilarity.
func WithSimilarity(fn SimilarityFunc) Option {
	return func(ix *Index) {
		if fn != nil {
			ix.similarity = fn
		}
	}
}

// WithScorer swaps how similarity and stated attributes combine. The default
// is SpecWeighted(DefaultSpecWeight).
func WithScorer(fn Scorer) Option {
	return func(ix *Index) {
		if fn != nil {
			ix.scorer = fn
		}
	}
}

var _ interfaces.ICatalogIndex = (*Index)(nil)

func NewIndex(entries []entities.CatalogEntry, opts ...Option) (*Index, error) {
	ix := &Index{similarity: CosineSimilarity, scorer: SpecWeighted(DefaultSpecWeight)}
	for _, o := range opts {
		o(ix)
	}
	if err := ix.Replace(entries); err != nil {
		return nil, err
	}
	return ix, nil
}

// Replace validates entries and swaps them in. In-flight searches finish on
// the snapshot they started with.
func (ix *Index) Replace(entries []entities.CatalogEntry) error {
	s := &snapshot{entries: make([]entities.CatalogEntry, 0, len(entries))}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, e.ID)
		}
		seen[e.ID] = true
		if len(e.Embedding) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingEmbedding, e.ID)
		}
		if s.dims == 0 {
			s.dims = len(e.Embedding)
		} else if len(e.Embedding) != s.dims {
			return fmt.Errorf("%w: entry %s has %d dims, expected %d", ErrDimensionMismatch, e.ID, len(e.Embedding), s.dims)
		}
		e.Specs = e.Specs.Clone()
		e.Embedding = append([]float64(nil), e.Embedding...)
		s.entries = append(s.entries, e)
	}
	sort.Slice(s.entries, func(i, j int) bool { return s.entries[i].ID < s.entries[j].ID })
	ix.snap.Store(s)
	return nil
}

func (ix *Index) Len() int {
	return len(ix.snap.Load().entries)
}

func (ix *Index) Dims() int {
	return ix.snap.Load().dims
}

// Lookup lists entries in id order. A limit of 0 returns everything after offset.
func (ix *Index) Lookup(_ context.Context, limit, offset int) ([]entities.CatalogEntry, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("invalid pagination limit=%d offset=%d", limit, offset)
	}
	entries := ix.snap.Load().entries
	if offset >= len(entries) {
		return []entities.CatalogEntry{}, nil
	}
	end := len(entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]entities.CatalogEntry, end-offset)
	copy(out, entries[offset:end])
	return out, nil
}

// Nearest returns the k entries closest to vector, by descending score and
// ascending id on ties. want holds the attributes the query states and may be
// empty. An empty index yields an empty result.
func (ix *Index) Nearest(ctx context.Context, vector []float64, want entities.Specs, k int) ([]entities.ScoredEntry, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	s := ix.snap.Load()
	if len(s.entries) == 0 {
		return []entities.ScoredEntry{}, nil
	}
	if len(vector) != s.dims {
		return nil, fmt.Errorf("%w: query has %d dims, index has %d", ErrDimensionMismatch, len(vector), s.dims)
	}

	scored := make([]entities.ScoredEntry, 0, len(s.entries))
	for i, e := range s.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		sim, err := ix.similarity(vector, e.Embedding)
		if err != nil {
			return nil, err
		}
		scored = append(scored, entities.ScoredEntry{Entry: e, Score: ix.scorer(sim, want, e.Specs)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Entry.ID < scored[j].Entry.ID
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}
