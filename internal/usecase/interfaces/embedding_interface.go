package interfaces

import "context"

//go:generate mockgen -source=embedding_interface.go -destination=mocks/embedding_interface.go -package=mock_interfaces

// IEmbeddingFunction maps text into the catalog embedding space.
type IEmbeddingFunction interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
