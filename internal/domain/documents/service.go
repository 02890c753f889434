package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/rag/internal/platform/embedding"
	"github.com/medbook/rag/internal/platform/ner"
	"github.com/medbook/rag/internal/platform/pdf"
	"github.com/medbook/rag/internal/platform/textproc"
)

// EmbeddingMetrics records embedding call outcomes. Satisfied by the
// telemetry provider; nil disables recording.
type EmbeddingMetrics interface {
	RecordEmbedding(d time.Duration, err error)
}

// Service runs the ingestion pipeline: extract, clean, parse, chunk,
// embed, store.
type Service struct {
	repo         Repository
	extractor    pdf.TextExtractor
	embedder     embedding.Embedder
	entities     ner.Extractor
	chunkSize    int
	chunkOverlap int
	metrics      EmbeddingMetrics
	log          zerolog.Logger
}

func NewService(repo Repository, extractor pdf.TextExtractor, embedder embedding.Embedder,
	entities ner.Extractor, chunkSize, chunkOverlap int, metrics EmbeddingMetrics, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		extractor:    extractor,
		embedder:     embedder,
		entities:     entities,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		metrics:      metrics,
		log:          log,
	}
}

// Ingest processes an uploaded PDF. The document row is committed before
// embedding starts, so a failed or partial embedding run degrades the
// document instead of losing it: pending and degraded documents are still
// answerable through the structured fallback.
func (s *Service) Ingest(ctx context.Context, fileName string, data []byte) (*Document, error) {
	raw, err := s.extractor.ExtractText(data)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", fileName, err)
	}
	text := textproc.CleanText(raw)
	if text == "" {
		return nil, pdf.ErrNoText
	}

	chunks := textproc.ChunkText(text, s.chunkSize, s.chunkOverlap)

	var entities []string
	if s.entities != nil {
		entities, err = s.entities.Extract(ctx, text)
		if err != nil {
			// Entity extraction is best-effort.
			s.log.Warn().Err(err).Str("file_name", fileName).Msg("entity extraction failed")
			entities = nil
		}
	}

	doc := &Document{
		FileName:     fileName,
		SizeBytes:    int64(len(data)),
		Content:      text,
		Entities:     entities,
		VectorStatus: VectorStatusPending,
		ChunkCount:   len(chunks),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	results := ParseTestResults(text)
	if err := s.repo.StoreTestResults(ctx, doc.ID, results); err != nil {
		return nil, fmt.Errorf("store test results: %w", err)
	}
	s.log.Info().
		Str("document_id", doc.ID.String()).
		Str("file_name", fileName).
		Int("chunks", len(chunks)).
		Int("test_results", len(results)).
		Msg("document parsed")

	if err := s.embedChunks(ctx, doc, chunks); err != nil {
		// Embedding failure is not fatal: the document stays pending and
		// is served through the structured fallback.
		s.log.Error().Err(err).
			Str("document_id", doc.ID.String()).
			Msg("embedding pipeline failed, document left pending")
	}

	return s.repo.GetByID(ctx, doc.ID)
}

func (s *Service) embedChunks(ctx context.Context, doc *Document, chunks []textproc.Chunk) error {
	if len(chunks) == 0 {
		return s.repo.StoreChunks(ctx, doc.ID, nil, VectorStatusDegraded)
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

	stored := make([]*Chunk, 0, len(chunks))
	failed := 0
	for i, c := range chunks {
		if errs[i] != nil {
			failed++
			s.log.Warn().Err(errs[i]).
				Str("document_id", doc.ID.String()).
				Int("chunk_index", c.Index).
				Msg("chunk embedding failed")
			continue
		}
		stored = append(stored, &Chunk{
			ChunkIndex: c.Index,
			Content:    c.Content,
			Embedding:  vectors[i],
		})
	}

	if len(stored) == 0 {
		return fmt.Errorf("all %d chunks failed to embed: %w", len(chunks), firstErr)
	}

	status := VectorStatusReady
	if failed > 0 {
		status = VectorStatusDegraded
	}
	if err := s.repo.StoreChunks(ctx, doc.ID, stored, status); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	s.log.Info().
		Str("document_id", doc.ID.String()).
		Int("stored", len(stored)).
		Int("failed", failed).
		Str("vector_status", string(status)).
		Msg("document chunks embedded")
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

// Resolve returns the document with the given ID, or the most recent
// document when id is nil.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (*Document, error) {
	if id == uuid.Nil {
		return s.repo.MostRecent(ctx)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Document, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) Chunks(ctx context.Context, documentID uuid.UUID) ([]*Chunk, error) {
	return s.repo.ChunksByDocument(ctx, documentID)
}

func (s *Service) TestResults(ctx context.Context, documentID uuid.UUID) ([]TestResult, error) {
	return s.repo.TestResultsByDocument(ctx, documentID)
}
