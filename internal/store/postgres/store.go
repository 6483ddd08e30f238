// Package postgres implements the domain repositories over a pgx
// connection pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/sentinel/internal/domain"
)

type Store struct {
	pool   *pgxpool.Pool
	audits *AuditRepo
	chunks *ChunkRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:   pool,
		audits: NewAuditRepo(pool),
		chunks: NewChunkRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Audits() domain.AuditRepository { return s.audits }
func (s *Store) Chunks() domain.ChunkRepository { return s.chunks }
