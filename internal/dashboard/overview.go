package dashboard

import (
	"time"

	"github.com/gosuda/sentinel/internal/domain"
)

const recentSummaryCount = 5

// AuditSummary is a compact listing entry for a past run.
type AuditSummary struct {
	ID         string    `json:"id"`
	PolicyName string    `json:"policy_name"`
	Models     []string  `json:"models"`
	CreatedAt  time.Time `json:"created_at"`
}

// Overview aggregates metrics across a set of audit runs.
type Overview struct {
	TotalAudits          int            `json:"total_audits"`
	TotalModelsAudited   int            `json:"total_models_audited"`
	TotalRulesChecked    int            `json:"total_rules_checked"`
	AvgComplianceRate    float64        `json:"average_compliance_rate"`
	TotalChecks          int            `json:"total_checks"`
	TotalPass            int            `json:"total_pass"`
	TotalFail            int            `json:"total_fail"`
	TotalNA              int            `json:"total_na"`
	RecentAudits         []AuditSummary `json:"recent_audits"`
}

// BuildOverview computes cross-audit totals over runs ordered newest first.
// Average compliance counts only evaluated cells, N/A excluded.
func BuildOverview(runs []*domain.AuditRun) Overview {
	ov := Overview{RecentAudits: []AuditSummary{}}
	if len(runs) == 0 {
		return ov
	}

	models := make(map[string]bool)
	rules := make(map[string]bool)

	for _, run := range runs {
		for _, item := range run.Results {
			models[item.ModelName] = true
			rules[item.RuleID] = true

			switch item.Evidence.Status {
			case domain.StatusPass:
				ov.TotalPass++
			case domain.StatusFail:
				ov.TotalFail++
			default:
				ov.TotalNA++
			}
		}
	}

	for _, run := range runs[:min(len(runs), recentSummaryCount)] {
		ov.RecentAudits = append(ov.RecentAudits, AuditSummary{
			ID:         run.ID.String(),
			PolicyName: run.PolicyName,
			Models:     run.ModelsAnalyzed(),
			CreatedAt:  run.CreatedAt,
		})
	}

	ov.TotalAudits = len(runs)
	ov.TotalModelsAudited = len(models)
	ov.TotalRulesChecked = len(rules)
	ov.TotalChecks = ov.TotalPass + ov.TotalFail + ov.TotalNA
	ov.AvgComplianceRate = round1(percent(ov.TotalPass, ov.TotalPass+ov.TotalFail))
	return ov
}
