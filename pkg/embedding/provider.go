package embedding

import "context"

// Provider turns text into embedding vectors. Collections bind one
// provider at handle acquisition so documents and queries always share
// the same embedding space.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
