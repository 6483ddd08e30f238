package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/sentinel/internal/domain"
)

// AuditRepo persists audit runs with rules and results stored as JSONB.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Insert(ctx context.Context, run *domain.AuditRun) error {
	rules, err := json.Marshal(run.Rules)
	if err != nil {
		return fmt.Errorf("auditRepo.Insert: marshal rules: %w", err)
	}
	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("auditRepo.Insert: marshal results: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_runs (id, policy_name, total_rules, total_models, rules, results, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.PolicyName, run.TotalRules, run.TotalModels,
		rules, results, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Insert: %w", err)
	}

	return nil
}

func (r *AuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, policy_name, total_rules, total_models, rules, results, created_at
		 FROM audit_runs WHERE id = $1`,
		id,
	)

	return scanAuditRun(row, "auditRepo.GetByID")
}

func (r *AuditRepo) GetLatest(ctx context.Context) (*domain.AuditRun, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, policy_name, total_rules, total_models, rules, results, created_at
		 FROM audit_runs
		 ORDER BY created_at DESC
		 LIMIT 1`,
	)

	return scanAuditRun(row, "auditRepo.GetLatest")
}

func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AuditRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, policy_name, total_rules, total_models, rules, results, created_at
		 FROM audit_runs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListRecent: %w", err)
	}
	defer rows.Close()

	var runs []*domain.AuditRun
	for rows.Next() {
		run, err := scanAuditRun(rows, "auditRepo.ListRecent")
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditRepo.ListRecent: rows: %w", err)
	}

	return runs, nil
}

func scanAuditRun(row pgx.Row, caller string) (*domain.AuditRun, error) {
	var run domain.AuditRun
	var rules, results []byte

	err := row.Scan(
		&run.ID, &run.PolicyName, &run.TotalRules, &run.TotalModels,
		&rules, &results, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", caller, err)
	}

	if err := json.Unmarshal(rules, &run.Rules); err != nil {
		return nil, fmt.Errorf("%s: unmarshal rules: %w", caller, err)
	}
	if err := json.Unmarshal(results, &run.Results); err != nil {
		return nil, fmt.Errorf("%s: unmarshal results: %w", caller, err)
	}

	return &run, nil
}
