package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// maxConcurrentEmbeds bounds parallel embedding API calls in a batch.
const maxConcurrentEmbeds = 8

// embeddingsAPI is the slice of the OpenAI client we use, extracted so tests
// can substitute a fake.
type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEmbedder generates embeddings through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	api   embeddingsAPI
	model string
	dim   int
}

// ModelDimension returns the vector size an OpenAI embedding model
// produces: 3072 for the -3-large family, 1536 otherwise.
func ModelDimension(model string) int {
	if strings.Contains(model, "3-large") {
		return 3072
	}
	return 1536
}

// NewOpenAI builds an embedder for the given model.
func NewOpenAI(apiKey, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		api:   openai.NewClient(apiKey),
		model: model,
		dim:   ModelDimension(model),
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response for model %s contained no data", e.model)
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	copy(vec, resp.Data[0].Embedding)
	l2Normalize(vec)
	return vec, nil
}

// EmbedBatch embeds each text with bounded parallelism. Results keep input
// order; a failed item leaves a nil vector and a non-nil error at its index
// without aborting the rest of the batch.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, []error) {
	vectors := make([][]float32, len(texts))
	errs := make([]error, len(texts))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentEmbeds)
	for i := range texts {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			vectors[idx], errs[idx] = e.Embed(ctx, texts[idx])
		}(i)
	}
	wg.Wait()

	return vectors, errs
}

func (e *OpenAIEmbedder) Dimension() int { return e.dim }

func (e *OpenAIEmbedder) Model() string { return e.model }

// l2Normalize scales v to unit length in place. Unit-length vectors make
// cosine similarity a plain dot product and keep stored magnitudes uniform.
func l2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
