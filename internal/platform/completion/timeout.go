package completion

import (
	"context"
	"time"
)

// WithTimeout bounds every call on the wrapped generator. A zero or
// negative duration returns the generator unchanged.
func WithTimeout(g Generator, d time.Duration) Generator {
	if d <= 0 {
		return g
	}
	return &timeoutGenerator{inner: g, timeout: d}
}

type timeoutGenerator struct {
	inner   Generator
	timeout time.Duration
}

func (t *timeoutGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, system, prompt)
}

func (t *timeoutGenerator) Model() string { return t.inner.Model() }
