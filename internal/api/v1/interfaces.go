package v1

import (
	"context"

	"github.com/gosuda/sentinel/internal/audit"
	"github.com/gosuda/sentinel/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Audits() domain.AuditRepository
	Chunks() domain.ChunkRepository
}

// AuditService abstracts the audit pipeline for handler testing.
// *audit.Service satisfies this interface.
type AuditService interface {
	Validate(ctx context.Context, policyText string) audit.Validation
	ExtractRules(ctx context.Context, policyText string) []domain.Rule
	Analyze(ctx context.Context, policyName, policyText string) (*domain.AuditRun, error)
	AnalyzeStream(ctx context.Context, policyName, policyText string) <-chan audit.Event
}
