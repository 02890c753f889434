// Package embedding turns text into fixed-dimension vectors. The service
// depends on the Embedder interface so retrieval logic can be tested without
// network access.
package embedding

import (
	"context"
	"errors"
)

// ErrEmptyText is returned when the input has no content to embed.
var ErrEmptyText = errors.New("cannot embed empty text")

// Embedder generates embedding vectors for text.
//
// EmbedBatch returns one vector and one error slot per input, in input
// order. A nil error at index i means vectors[i] is valid; callers decide
// whether to keep partial results or discard the batch.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) (vectors [][]float32, errs []error)
	Dimension() int
	Model() string
}
