package interfaces

import (
	"context"
	"rfp_automation/internal/domain/entities"
)

//go:generate mockgen -source=catalog_index_interface.go -destination=mocks/catalog_index_interface.go -package=mock_interfaces

// ICatalogIndex is the read-only product catalog with nearest-neighbor search.
type ICatalogIndex interface {
	Lookup(ctx context.Context, limit, offset int) ([]entities.CatalogEntry, error)
	// Nearest scores entries by vector similarity and by closeness to the
	// attributes in want, which may be empty.
	Nearest(ctx context.Context, vector []float64, want entities.Specs, k int) ([]entities.ScoredEntry, error)
	Len() int
}
