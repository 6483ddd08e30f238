package dashboard

import "github.com/gosuda/sentinel/internal/domain"

// RuleResult is one rule's outcome for a model in a comparison.
type RuleResult struct {
	RuleID       string  `json:"rule_id"`
	RuleQuestion string  `json:"rule_question"`
	Category     string  `json:"category"`
	Status       string  `json:"status"`
	Confidence   float64 `json:"confidence"`
	Quote        string  `json:"quote"`
	Reason       string  `json:"reason"`
}

// ModelComparison is one model's side of a head-to-head comparison.
type ModelComparison struct {
	PassCount       int          `json:"pass_count"`
	FailCount       int          `json:"fail_count"`
	NACount         int          `json:"na_count"`
	ComplianceScore float64      `json:"compliance_score"`
	Results         []RuleResult `json:"results"`
}

// Compare groups results by model, optionally restricted to the given model
// names. An empty models slice compares everything in the result set.
func Compare(results []domain.AuditItem, models []string) map[string]ModelComparison {
	var wanted map[string]bool
	if len(models) > 0 {
		wanted = make(map[string]bool, len(models))
		for _, m := range models {
			wanted[m] = true
		}
	}

	comparison := make(map[string]ModelComparison)
	for _, item := range results {
		if wanted != nil && !wanted[item.ModelName] {
			continue
		}

		mc := comparison[item.ModelName]
		switch item.Evidence.Status {
		case domain.StatusPass:
			mc.PassCount++
		case domain.StatusFail:
			mc.FailCount++
		default:
			mc.NACount++
		}
		mc.Results = append(mc.Results, RuleResult{
			RuleID:       item.RuleID,
			RuleQuestion: item.RuleQuestion,
			Category:     item.RuleCategory,
			Status:       string(item.Evidence.Status),
			Confidence:   item.Evidence.Confidence,
			Quote:        item.Evidence.Quote,
			Reason:       item.Evidence.Reason,
		})
		comparison[item.ModelName] = mc
	}

	for name, mc := range comparison {
		mc.ComplianceScore = round1(percent(mc.PassCount, mc.PassCount+mc.FailCount))
		comparison[name] = mc
	}

	return comparison
}
