package embedding

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeAPI struct {
	calls    atomic.Int32
	inflight atomic.Int32
	peak     atomic.Int32
	fail     func(input string) error
}

func (f *fakeAPI) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.calls.Add(1)
	cur := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		peak := f.peak.Load()
		if cur <= peak || f.peak.CompareAndSwap(peak, cur) {
			break
		}
	}

	input := req.Convert().Input.([]string)[0]
	if f.fail != nil {
		if err := f.fail(input); err != nil {
			return openai.EmbeddingResponse{}, err
		}
	}
	return openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: []float32{float32(len(input)), 3, 4}}},
	}, nil
}

func newTestEmbedder(api *fakeAPI) *OpenAIEmbedder {
	return &OpenAIEmbedder{api: api, model: "text-embedding-3-small", dim: 3}
}

func TestEmbed_Normalized(t *testing.T) {
	e := newTestEmbedder(&fakeAPI{})
	vec, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("vector norm^2 = %v, want 1", sum)
	}
}

func TestEmbed_EmptyText(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEmbedder(api)
	if _, err := e.Embed(context.Background(), "   \n"); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if api.calls.Load() != 0 {
		t.Error("empty text should not reach the API")
	}
}

func TestEmbedBatch_Order(t *testing.T) {
	e := newTestEmbedder(&fakeAPI{})
	texts := []string{"a", "bb", "ccc", "dddd"}
	vectors, errs := e.EmbedBatch(context.Background(), texts)
	if len(vectors) != len(texts) || len(errs) != len(texts) {
		t.Fatalf("expected %d results, got %d vectors / %d errs", len(texts), len(vectors), len(errs))
	}
	for i, text := range texts {
		if errs[i] != nil {
			t.Fatalf("text %d: %v", i, errs[i])
		}
		// fake encodes input length in the first component before
		// normalization, so relative order survives
		wantRatio := float64(len(text)) / 3.0
		gotRatio := float64(vectors[i][0]) / float64(vectors[i][1])
		if math.Abs(gotRatio-wantRatio) > 1e-5 {
			t.Errorf("vector %d does not correspond to input %q", i, text)
		}
	}
}

func TestEmbedBatch_PartialFailure(t *testing.T) {
	boom := errors.New("rate limited")
	e := newTestEmbedder(&fakeAPI{fail: func(input string) error {
		if strings.HasPrefix(input, "bad") {
			return boom
		}
		return nil
	}})

	vectors, errs := e.EmbedBatch(context.Background(), []string{"ok one", "bad two", "ok three"})
	if errs[0] != nil || errs[2] != nil {
		t.Fatalf("healthy items failed: %v / %v", errs[0], errs[2])
	}
	if !errors.Is(errs[1], boom) {
		t.Fatalf("expected failure for item 1, got %v", errs[1])
	}
	if vectors[1] != nil {
		t.Error("failed item should have nil vector")
	}
	if vectors[0] == nil || vectors[2] == nil {
		t.Error("surviving items should have vectors")
	}
}

func TestEmbedBatch_BoundedConcurrency(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEmbedder(api)
	texts := make([]string, 50)
	for i := range texts {
		texts[i] = strings.Repeat("x", i+1)
	}
	if _, errs := e.EmbedBatch(context.Background(), texts); errs[0] != nil {
		t.Fatalf("batch failed: %v", errs[0])
	}
	if peak := api.peak.Load(); peak > maxConcurrentEmbeds {
		t.Errorf("observed %d concurrent calls, limit is %d", peak, maxConcurrentEmbeds)
	}
}

func TestNewOpenAI_Dimension(t *testing.T) {
	if d := NewOpenAI("sk-test", "text-embedding-3-small").Dimension(); d != 1536 {
		t.Errorf("small model dimension = %d, want 1536", d)
	}
	if d := NewOpenAI("sk-test", "text-embedding-3-large").Dimension(); d != 3072 {
		t.Errorf("large model dimension = %d, want 3072", d)
	}
}
