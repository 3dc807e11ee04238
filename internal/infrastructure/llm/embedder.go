package llm

import (
	"context"
	"fmt"

	"rfp_automation/internal/infrastructure/catalog"
	"rfp_automation/internal/usecase/interfaces"
)

// Embedder adapts Client to the single-text embedding function.
type Embedder struct {
	client *Client
}

var (
	_ interfaces.IEmbeddingFunction = (*Embedder)(nil)
	_ catalog.BatchEmbedder         = (*Embedder)(nil)
)

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	out, err := e.client.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts with a single request, preserving their order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out, err := e.client.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ErrEmptyResponse, len(out), len(texts))
	}
	return out, nil
}
