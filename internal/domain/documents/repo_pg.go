package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG builds the PostgreSQL repository. Chunk embeddings are stored
// in a pgvector column.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const documentCols = `id, file_name, size_bytes, content, entities, vector_status, chunk_count, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.FileName, &d.SizeBytes, &d.Content, &d.Entities, &d.VectorStatus, &d.ChunkCount, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Document) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.VectorStatus == "" {
		d.VectorStatus = VectorStatusPending
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO documents (id, file_name, size_bytes, content, entities, vector_status, chunk_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		d.ID, d.FileName, d.SizeBytes, d.Content, d.Entities, d.VectorStatus, d.ChunkCount,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `SELECT `+documentCols+` FROM documents WHERE id = $1`, id))
}

func (r *repoPG) MostRecent(ctx context.Context) (*Document, error) {
	return scanDocument(r.pool.QueryRow(ctx, `SELECT `+documentCols+` FROM documents ORDER BY created_at DESC LIMIT 1`))
}

func (r *repoPG) List(ctx context.Context) ([]*Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, file_name, size_bytes, entities, vector_status, chunk_count, created_at, updated_at
		FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.FileName, &d.SizeBytes, &d.Entities, &d.VectorStatus, &d.ChunkCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// Chunks and test results go with it via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

func (r *repoPG) StoreChunks(ctx context.Context, documentID uuid.UUID, chunks []*Chunk, status VectorStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range chunks {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.DocumentID = documentID
		if _, err := tx.Exec(ctx, `
			INSERT INTO document_chunks (id, document_id, chunk_index, content, embedding)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.DocumentID, c.ChunkIndex, c.Content, pgvector.NewVector(c.Embedding)); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE documents SET vector_status = $2, chunk_count = $3, updated_at = NOW()
		WHERE id = $1`,
		documentID, status, len(chunks)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *repoPG) ChunksByDocument(ctx context.Context, documentID uuid.UUID) ([]*Chunk, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, chunk_index, content, embedding, created_at
		FROM document_chunks WHERE document_id = $1 ORDER BY chunk_index`,
		documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*Chunk
	for rows.Next() {
		var c Chunk
		var vec pgvector.Vector
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.ChunkIndex, &c.Content, &vec, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Embedding = vec.Slice()
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

func (r *repoPG) StoreTestResults(ctx context.Context, documentID uuid.UUID, results []TestResult) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range results {
		tr := &results[i]
		if tr.ID == uuid.Nil {
			tr.ID = uuid.New()
		}
		tr.DocumentID = documentID
		if _, err := tx.Exec(ctx, `
			INSERT INTO test_results (id, document_id, name, value, unit, normal_range, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			tr.ID, tr.DocumentID, tr.Name, tr.Value, tr.Unit, tr.NormalRange, tr.Status); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repoPG) TestResultsByDocument(ctx context.Context, documentID uuid.UUID) ([]TestResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, name, value, unit, normal_range, status, created_at
		FROM test_results WHERE document_id = $1 ORDER BY name`,
		documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TestResult
	for rows.Next() {
		var tr TestResult
		if err := rows.Scan(&tr.ID, &tr.DocumentID, &tr.Name, &tr.Value, &tr.Unit, &tr.NormalRange, &tr.Status, &tr.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, tr)
	}
	return results, rows.Err()
}
