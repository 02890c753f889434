package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbook/rag/internal/platform/embedding"
	"github.com/medbook/rag/internal/platform/textproc"
)

// EmbeddingMetrics records embedding call outcomes. Nil disables recording.
type EmbeddingMetrics interface {
	RecordEmbedding(d time.Duration, err error)
}

// Service chunks and embeds reference material into the knowledge base.
type Service struct {
	repo         Repository
	embedder     embedding.Embedder
	chunkSize    int
	chunkOverlap int
	metrics      EmbeddingMetrics
	log          zerolog.Logger
}

func NewService(repo Repository, embedder embedding.Embedder, chunkSize, chunkOverlap int,
	metrics EmbeddingMetrics, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		metrics:      metrics,
		log:          log,
	}
}

// Store chunks content, embeds each chunk, and writes the entries under
// the given source and category. Existing entries for the source are
// replaced in the same transaction, so re-running a seed neither
// duplicates rows nor loses the corpus on a failed write. Returns the
// number of entries stored.
func (s *Service) Store(ctx context.Context, content, source, category string) (int, error) {
	chunks := textproc.ChunkText(textproc.CleanText(content), s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no content to store for source %q", source)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	start := time.Now()
	vectors, errs := s.embedder.EmbedBatch(ctx, texts)
	var firstErr error
	for _, e := range errs {
		if e != nil {
			firstErr = e
			break
		}
	}
	if s.metrics != nil {
		s.metrics.RecordEmbedding(time.Since(start), firstErr)
	}

	entries := make([]*Entry, 0, len(chunks))
	for i, c := range chunks {
		if errs[i] != nil {
			s.log.Warn().Err(errs[i]).
				Str("source", source).
				Int("chunk_index", c.Index).
				Msg("knowledge chunk embedding failed")
			continue
		}
		entries = append(entries, &Entry{
			Content:    c.Content,
			Embedding:  vectors[i],
			Source:     source,
			Category:   category,
			ChunkIndex: c.Index,
		})
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("embed knowledge source %q: %w", source, firstErr)
	}

	if err := s.repo.ReplaceSource(ctx, source, entries); err != nil {
		return 0, fmt.Errorf("store knowledge entries for %q: %w", source, err)
	}

	s.log.Info().
		Str("source", source).
		Str("category", category).
		Int("entries", len(entries)).
		Msg("knowledge source stored")
	return len(entries), nil
}

// ByCategories returns entries in the given categories; an empty slice
// returns everything.
func (s *Service) ByCategories(ctx context.Context, categories []string) ([]*Entry, error) {
	return s.repo.ByCategories(ctx, categories)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
