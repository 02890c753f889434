package documents

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract for documents, their embedded chunks,
// and parsed test results.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// MostRecent returns the newest document, the default target when a
	// query names no document.
	MostRecent(ctx context.Context) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	// StoreChunks inserts the embedded chunks and sets the document's
	// vector status in one transaction, so a document never appears
	// searchable with half its chunks missing.
	StoreChunks(ctx context.Context, documentID uuid.UUID, chunks []*Chunk, status VectorStatus) error
	ChunksByDocument(ctx context.Context, documentID uuid.UUID) ([]*Chunk, error)

	StoreTestResults(ctx context.Context, documentID uuid.UUID, results []TestResult) error
	TestResultsByDocument(ctx context.Context, documentID uuid.UUID) ([]TestResult, error)
}
