package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/sentinel/internal/domain"
)

// ChunkRepo stores documentation chunks and serves keyword retrieval over
// Postgres full-text search.
type ChunkRepo struct {
	pool *pgxpool.Pool
}

func NewChunkRepo(pool *pgxpool.Pool) *ChunkRepo {
	return &ChunkRepo{pool: pool}
}

func (r *ChunkRepo) SearchSimilar(ctx context.Context, query string, k int, modelName string) ([]domain.Chunk, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT content, model_name, source
		 FROM doc_chunks
		 WHERE model_name = $1
		   AND search_vector @@ websearch_to_tsquery('english', $2)
		 ORDER BY ts_rank(search_vector, websearch_to_tsquery('english', $2)) DESC
		 LIMIT $3`,
		modelName, query, k,
	)
	if err != nil {
		return nil, fmt.Errorf("chunkRepo.SearchSimilar: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.Content, &c.ModelName, &c.Source); err != nil {
			return nil, fmt.Errorf("chunkRepo.SearchSimilar: scan: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chunkRepo.SearchSimilar: rows: %w", err)
	}

	return chunks, nil
}

func (r *ChunkRepo) ListModels(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT model_name FROM doc_chunks ORDER BY model_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("chunkRepo.ListModels: %w", err)
	}
	defer rows.Close()

	var models []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("chunkRepo.ListModels: scan: %w", err)
		}
		models = append(models, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chunkRepo.ListModels: rows: %w", err)
	}

	return models, nil
}

// ReplaceModel swaps out a model's chunks atomically so readers never see a
// half-ingested document set.
func (r *ChunkRepo) ReplaceModel(ctx context.Context, modelName string, chunks []domain.Chunk) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("chunkRepo.ReplaceModel: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM doc_chunks WHERE model_name = $1`, modelName)
	if err != nil {
		return fmt.Errorf("chunkRepo.ReplaceModel: delete: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(
			`INSERT INTO doc_chunks (content, model_name, source, search_vector)
			 VALUES ($1, $2, $3, to_tsvector('english', $1))`,
			c.Content, modelName, c.Source,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range chunks {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("chunkRepo.ReplaceModel: insert: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("chunkRepo.ReplaceModel: close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("chunkRepo.ReplaceModel: commit: %w", err)
	}

	return nil
}
