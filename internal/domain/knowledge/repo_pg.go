package knowledge

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) ReplaceSource(ctx context.Context, source string, entries []*Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM knowledge_base WHERE source = $1`, source); err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO knowledge_base (id, content, embedding, source, category, chunk_index)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.Content, pgvector.NewVector(e.Embedding), e.Source, e.Category, e.ChunkIndex); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *repoPG) ByCategories(ctx context.Context, categories []string) ([]*Entry, error) {
	query := `
		SELECT id, content, embedding, source, category, chunk_index, created_at
		FROM knowledge_base`
	args := []interface{}{}
	if len(categories) > 0 {
		query += ` WHERE category = ANY($1)`
		args = append(args, categories)
	}
	query += ` ORDER BY category, chunk_index`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var vec pgvector.Vector
		if err := rows.Scan(&e.ID, &e.Content, &vec, &e.Source, &e.Category, &e.ChunkIndex, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Embedding = vec.Slice()
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_base`).Scan(&n)
	return n, err
}
