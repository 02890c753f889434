// Package documents owns the patient-document side of the retrieval
// pipeline: PDF ingestion, chunk embedding, parsed test results, and the
// upload/list/delete HTTP endpoints. Patient chunks live in their own
// partition, separate from the medical knowledge base.
package documents

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// VectorStatus describes whether a document's chunks are available for
// vector retrieval.
type VectorStatus string

const (
	// VectorStatusPending means chunks have not been embedded yet.
	// Queries against the document fall back to structured search.
	VectorStatusPending VectorStatus = "pending"
	// VectorStatusReady means every chunk has a stored embedding.
	VectorStatusReady VectorStatus = "ready"
	// VectorStatusDegraded means some chunks failed to embed; the stored
	// subset is still searchable.
	VectorStatusDegraded VectorStatus = "degraded"
)

// Document maps to the documents table.
type Document struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	FileName     string       `db:"file_name" json:"fileName"`
	SizeBytes    int64        `db:"size_bytes" json:"sizeBytes"`
	Content      string       `db:"content" json:"-"`
	Entities     []string     `db:"entities" json:"entities"`
	VectorStatus VectorStatus `db:"vector_status" json:"vectorStatus"`
	ChunkCount   int          `db:"chunk_count" json:"chunkCount"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// Chunk maps to the document_chunks table. Embedding holds the chunk's
// vector; chunks that failed to embed are not stored.
type Chunk struct {
	ID         uuid.UUID `db:"id" json:"id"`
	DocumentID uuid.UUID `db:"document_id" json:"documentId"`
	ChunkIndex int       `db:"chunk_index" json:"chunkIndex"`
	Content    string    `db:"content" json:"content"`
	Embedding  []float32 `db:"embedding" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// TestResult maps to the test_results table: one parsed lab value from a
// document, e.g. "Cholesterol: 240 mg/dL (Normal range: 125-200, Status:
// High)".
type TestResult struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DocumentID  uuid.UUID `db:"document_id" json:"documentId"`
	Name        string    `db:"name" json:"name"`
	Value       string    `db:"value" json:"value"`
	Unit        string    `db:"unit" json:"unit"`
	NormalRange string    `db:"normal_range" json:"normalRange"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
