package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	doc "github.com/medbook/rag/internal/domain/documents"
	"github.com/medbook/rag/internal/domain/knowledge"
	"github.com/medbook/rag/internal/platform/completion"
	"github.com/medbook/rag/internal/platform/embedding"
	"github.com/medbook/rag/internal/platform/similarity"
)

// DocumentStore is the patient partition as seen by retrieval.
// Satisfied by documents.Service.
type DocumentStore interface {
	Resolve(ctx context.Context, id uuid.UUID) (*doc.Document, error)
	Chunks(ctx context.Context, documentID uuid.UUID) ([]*doc.Chunk, error)
	TestResults(ctx context.Context, documentID uuid.UUID) ([]doc.TestResult, error)
}

// KnowledgeStore is the knowledge partition as seen by retrieval.
// Satisfied by knowledge.Service.
type KnowledgeStore interface {
	ByCategories(ctx context.Context, categories []string) ([]*knowledge.Entry, error)
}

// Metrics records retrieval and completion outcomes. Nil disables
// recording.
type Metrics interface {
	RecordCompletion(d time.Duration, err error)
	RetrievalCounter(sourceType string)
	FallbackCounter(reason string)
}

// Service answers a query against one patient document plus the shared
// knowledge base.
type Service struct {
	docs      DocumentStore
	kb        KnowledgeStore
	embedder  embedding.Embedder
	generator completion.Generator
	topK      int
	metrics   Metrics
	log       zerolog.Logger
}

func NewService(docs DocumentStore, kb KnowledgeStore, embedder embedding.Embedder,
	generator completion.Generator, topK int, metrics Metrics, log zerolog.Logger) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{
		docs:      docs,
		kb:        kb,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		metrics:   metrics,
		log:       log,
	}
}

// Retrieval is the evidence gathered for one query. Patient data and
// knowledge data stay in separate groups so provenance is never lost
// before prompt assembly.
type Retrieval struct {
	Document        *doc.Document
	Categories      []string
	PatientSections []string
	Knowledge       []similarity.Result
	Entities        []string
}

// Retrieve classifies the query, ranks candidates from both partitions
// against a single query embedding, and applies the structured fallbacks.
// Embedding or store failures degrade to structured search, never to a
// request error; only an unknown document is fatal here.
func (s *Service) Retrieve(ctx context.Context, query string, documentID uuid.UUID) (*Retrieval, error) {
	document, err := s.docs.Resolve(ctx, documentID)
	if err != nil {
		return nil, err
	}

	categories := Classify(query)

	var findings []string
	if isAbnormalFindingQuery(query) {
		var extra []string
		findings, extra = extractCardiacFindings(document.Content)
		categories = dedupe(append(categories, extra...))
	}

	queryVec, embedErr := s.embedder.Embed(ctx, query)
	if embedErr != nil {
		s.log.Warn().Err(embedErr).Msg("query embedding failed, degrading to structured search")
		s.fallbackUsed("embedding_error")
	}

	ret := &Retrieval{
		Document:   document,
		Categories: categories,
		Knowledge:  s.retrieveKnowledge(ctx, queryVec, categories),
	}
	ret.PatientSections = s.retrievePatient(ctx, query, document, queryVec, embedErr)

	ret.PatientSections = append(ret.PatientSections, findings...)
	if isMedicationQuery(query) {
		ret.PatientSections = append(ret.PatientSections, extractMedicationInfo(document.Content))
	}

	queryLower := strings.ToLower(query)
	for _, entity := range document.Entities {
		if strings.Contains(queryLower, strings.ToLower(entity)) {
			ret.Entities = append(ret.Entities, entity)
		}
	}

	return ret, nil
}

func (s *Service) retrieveKnowledge(ctx context.Context, queryVec []float32, categories []string) []similarity.Result {
	if queryVec == nil {
		return nil
	}
	entries, err := s.kb.ByCategories(ctx, categories)
	if err != nil {
		s.log.Warn().Err(err).Msg("knowledge retrieval failed")
		return nil
	}

	candidates := make([]similarity.Candidate, 0, len(entries))
	for i, e := range entries {
		candidates = append(candidates, similarity.Candidate{
			Content:  e.Content,
			Vector:   e.Embedding,
			Index:    i,
			Source:   e.Source,
			Category: e.Category,
		})
	}
	results := similarity.Rank(queryVec, candidates, s.topK)
	for range results {
		s.retrieved(SourceTypeKnowledge)
	}
	return results
}

func (s *Service) retrievePatient(ctx context.Context, query string, document *doc.Document,
	queryVec []float32, embedErr error) []string {

	if embedErr == nil {
		chunks, err := s.docs.Chunks(ctx, document.ID)
		if err == nil {
			candidates := make([]similarity.Candidate, 0, len(chunks))
			for _, c := range chunks {
				candidates = append(candidates, similarity.Candidate{
					Content: c.Content,
					Vector:  c.Embedding,
					Index:   c.ChunkIndex,
					Source:  document.FileName,
				})
			}
			if results := similarity.Rank(queryVec, candidates, s.topK); len(results) > 0 {
				sections := make([]string, len(results))
				for i, r := range results {
					sections[i] = fmt.Sprintf("Document Content (similarity: %.3f): %s", r.Similarity, r.Content)
					s.retrieved(SourceTypePatient)
				}
				return sections
			}

			// No vectors for this document: term-match the parsed results.
			s.fallbackUsed("no_vectors")
			return matchTestResults(query, s.testResults(ctx, document.ID))
		}
		s.log.Warn().Err(err).Str("document_id", document.ID.String()).Msg("chunk retrieval failed")
	}

	// Vector search was unavailable entirely; surface everything parsed
	// from the document so the answer still has evidence.
	return allTestResults(s.testResults(ctx, document.ID))
}

func (s *Service) testResults(ctx context.Context, documentID uuid.UUID) []doc.TestResult {
	results, err := s.docs.TestResults(ctx, documentID)
	if err != nil {
		s.log.Warn().Err(err).Str("document_id", documentID.String()).Msg("test result lookup failed")
		return nil
	}
	return results
}

// Answer runs retrieval, assembles the grounded prompt, and invokes the
// completion service.
func (s *Service) Answer(ctx context.Context, query string, documentID uuid.UUID) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	ret, err := s.Retrieve(ctx, query, documentID)
	if err != nil {
		return nil, err
	}

	knowledgeContents := make([]string, len(ret.Knowledge))
	for i, r := range ret.Knowledge {
		knowledgeContents[i] = r.Content
	}

	system, prompt := Assemble(PromptInput{
		Query:             query,
		PatientSections:   ret.PatientSections,
		KnowledgeContents: knowledgeContents,
		Entities:          ret.Entities,
		FileName:          ret.Document.FileName,
		UploadDate:        ret.Document.CreatedAt,
	})

	start := time.Now()
	answer, err := s.generator.Generate(ctx, system, prompt)
	if s.metrics != nil {
		s.metrics.RecordCompletion(time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	return &Response{
		Answer:  answer,
		Sources: buildSources(ret),
	}, nil
}

// buildSources pairs each excerpt with its provenance tag: knowledge
// entries first, then up to three patient sections.
func buildSources(ret *Retrieval) []Source {
	sources := make([]Source, 0, len(ret.Knowledge)+3)
	for i, r := range ret.Knowledge {
		sources = append(sources, Source{
			ID:       fmt.Sprintf("knowledge_%d", i),
			Excerpt:  excerpt(r.Content),
			Source:   r.Source,
			Category: r.Category,
			Type:     SourceTypeKnowledge,
		})
	}
	for i, section := range ret.PatientSections {
		if i == 3 {
			break
		}
		sources = append(sources, Source{
			ID:      fmt.Sprintf("patient_doc_%d", i),
			Excerpt: excerpt(section),
			Source:  ret.Document.FileName,
			Type:    SourceTypePatient,
		})
	}
	return sources
}

func excerpt(s string) string {
	runes := []rune(s)
	if len(runes) > 200 {
		runes = runes[:200]
	}
	return string(runes) + "..."
}

func (s *Service) retrieved(sourceType string) {
	if s.metrics != nil {
		s.metrics.RetrievalCounter(sourceType)
	}
}

func (s *Service) fallbackUsed(reason string) {
	if s.metrics != nil {
		s.metrics.FallbackCounter(reason)
	}
}
