package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EvidenceStatus is the verdict for one model against one rule.
type EvidenceStatus string

const (
	StatusPass EvidenceStatus = "PASS"
	StatusFail EvidenceStatus = "FAIL"
	// StatusNA marks a cell whose evaluation could not be completed
	// (retrieval or judgment failure). Excluded from compliance
	// denominators.
	StatusNA EvidenceStatus = "N/A"
)

// Valid reports whether s is one of the known verdict values.
func (s EvidenceStatus) Valid() bool {
	return s == StatusPass || s == StatusFail || s == StatusNA
}

// Rule is a yes/no compliance question extracted from a policy document.
// Rules are immutable once extracted; ids are unique only within one
// extraction call, not globally.
type Rule struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
}

// Evidence is the judgment for one (model, rule) cell: verdict, confidence
// in [0,100], a short verbatim quote from the documentation, and a
// one-sentence rationale.
type Evidence struct {
	Status     EvidenceStatus `json:"status"`
	Confidence float64        `json:"confidence"`
	Quote      string         `json:"quote"`
	Reason     string         `json:"reason"`
}

// AuditItem is one cell of the model x rule evaluation matrix.
// Rule question and category are denormalized so the item stays
// self-describing even if the originating rule list is pruned later.
type AuditItem struct {
	ModelName    string   `json:"model_name"`
	RuleID       string   `json:"rule_id"`
	RuleQuestion string   `json:"rule_question"`
	RuleCategory string   `json:"rule_category"`
	Evidence     Evidence `json:"evidence"`
}

// AuditRun is a completed audit result set. Once persisted it is treated
// as an immutable snapshot identified by ID and CreatedAt.
type AuditRun struct {
	ID          uuid.UUID   `json:"id"`
	PolicyName  string      `json:"policy_name"`
	TotalRules  int         `json:"total_rules"`
	TotalModels int         `json:"total_models"`
	Rules       []Rule      `json:"rules"`
	Results     []AuditItem `json:"audit_results"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Complete reports whether every cell of the model x rule matrix is present.
func (r *AuditRun) Complete() bool {
	return len(r.Results) == r.TotalModels*r.TotalRules
}

// ModelsAnalyzed returns the distinct model names present in the results,
// in order of first appearance.
func (r *AuditRun) ModelsAnalyzed() []string {
	seen := make(map[string]struct{}, r.TotalModels)
	models := make([]string, 0, r.TotalModels)
	for _, item := range r.Results {
		if _, ok := seen[item.ModelName]; ok {
			continue
		}
		seen[item.ModelName] = struct{}{}
		models = append(models, item.ModelName)
	}
	return models
}

type AuditRepository interface {
	Insert(ctx context.Context, run *AuditRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*AuditRun, error)
	GetLatest(ctx context.Context) (*AuditRun, error)
	ListRecent(ctx context.Context, limit int) ([]*AuditRun, error)
}
