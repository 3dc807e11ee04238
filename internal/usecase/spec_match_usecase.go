package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"rfp_automation/internal/domain/entities"
	"rfp_automation/internal/platform/logger"
	"rfp_automation/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=spec_match_usecase.go -destination=../adapter/http/handlers/mocks/spec_match_usecase.go -package=mocks

const DefaultTopK = 3

// ISpecMatchUseCase ranks catalog entries against free-text requirements.
type ISpecMatchUseCase interface {
	// Match returns the topK closest catalog entries. A topK of 0 means DefaultTopK.
	Match(ctx context.Context, query string, topK int) (entities.MatchResult, error)
	ListCatalog(ctx context.Context, limit, offset int) ([]entities.CatalogEntry, int, error)
}

type SpecMatchUseCase struct {
	index        interfaces.ICatalogIndex
	embedder     interfaces.IEmbeddingFunction
	log          *logger.Logger
	tracer       trace.Tracer
	embedTimeout time.Duration
}

var _ ISpecMatchUseCase = (*SpecMatchUseCase)(nil)

func NewSpecMatchUseCase(index interfaces.ICatalogIndex, embedder interfaces.IEmbeddingFunction, log *logger.Logger, embedTimeout time.Duration) *SpecMatchUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SpecMatchUseCase{
		index:        index,
		embedder:     embedder,
		log:          log,
		tracer:       otel.Tracer("rfp_automation/usecase/specmatch"),
		embedTimeout: embedTimeout,
	}
}

func (u *SpecMatchUseCase) Match(ctx context.Context, query string, topK int) (entities.MatchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return entities.MatchResult{}, ErrInvalidQuery
	}
	if topK < 0 {
		return entities.MatchResult{}, ErrInvalidTopK
	}
	if topK == 0 {
		topK = DefaultTopK
	}

	ctx, span := u.tracer.Start(ctx, "specmatch.match", trace.WithAttributes(attribute.Int("top_k", topK)))
	defer span.End()

	vec, err := callWithTimeout(ctx, u.embedTimeout, func(c context.Context) ([]float64, error) {
		return u.embedder.Embed(c, query)
	})
	if err == nil && len(vec) == 0 {
		err = errors.New("empty embedding vector")
	}
	if err != nil {
		span.RecordError(err)
		u.log.Warn("embedding failed", "query", query, "error", err)
		return entities.MatchResult{}, fmt.Errorf("%w: %s", ErrEmbeddingUnavailable, err.Error())
	}

	want := extractQuerySpecs(query)
	hits, err := u.index.Nearest(ctx, vec, want, topK)
	if err != nil {
		span.RecordError(err)
		return entities.MatchResult{}, fmt.Errorf("%w: %s", ErrCatalogUnavailable, err.Error())
	}
	sortHits(hits)

	res := entities.MatchResult{Query: query, Matches: make([]entities.Match, 0, len(hits))}
	for _, h := range hits {
		res.Matches = append(res.Matches, entities.Match{
			Entry:     h.Entry,
			Score:     h.Score,
			Rationale: describeMatch(want, h.Entry),
		})
	}
	span.SetAttributes(attribute.Int("matches", len(res.Matches)))
	return res, nil
}

func (u *SpecMatchUseCase) ListCatalog(ctx context.Context, limit, offset int) ([]entities.CatalogEntry, int, error) {
	if limit < 0 || offset < 0 {
		return nil, 0, ErrInvalidPagination
	}
	entries, err := u.index.Lookup(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrCatalogUnavailable, err.Error())
	}
	return entries, u.index.Len(), nil
}

// sortHits enforces descending score, ties by ascending entry id.
func sortHits(hits []entities.ScoredEntry) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Entry.ID < hits[j].Entry.ID
	})
}
