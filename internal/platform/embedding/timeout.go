package embedding

import (
	"context"
	"time"
)

// WithTimeout bounds every call on the wrapped embedder. A zero or
// negative duration returns the embedder unchanged.
func WithTimeout(e Embedder, d time.Duration) Embedder {
	if d <= 0 {
		return e
	}
	return &timeoutEmbedder{inner: e, timeout: d}
}

type timeoutEmbedder struct {
	inner   Embedder
	timeout time.Duration
}

func (t *timeoutEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Embed(ctx, text)
}

func (t *timeoutEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, []error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.EmbedBatch(ctx, texts)
}

func (t *timeoutEmbedder) Dimension() int { return t.inner.Dimension() }
func (t *timeoutEmbedder) Model() string  { return t.inner.Model() }
