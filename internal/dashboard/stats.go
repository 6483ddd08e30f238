// Package dashboard computes compliance statistics from completed audit
// result sets. Everything here is a pure projection: inputs are never
// mutated, and identical inputs always yield identical outputs.
package dashboard

import (
	"math"
	"sort"

	"github.com/gosuda/sentinel/internal/domain"
)

// ModelRanking is one row of the per-model compliance leaderboard.
type ModelRanking struct {
	ModelName       string  `json:"model_name"`
	ComplianceScore float64 `json:"compliance_score"`
	AvgConfidence   float64 `json:"avg_confidence"`
	PassCount       int     `json:"pass_count"`
	FailCount       int     `json:"fail_count"`
	TotalRules      int     `json:"total_rules"`
}

// CategoryStats is the pass rate breakdown for one rule category.
type CategoryStats struct {
	Category  string  `json:"category"`
	PassRate  float64 `json:"pass_rate"`
	PassCount int     `json:"pass_count"`
	FailCount int     `json:"fail_count"`
}

// Stats is the full dashboard projection of one audit result set.
type Stats struct {
	OverallCompliance float64         `json:"overall_compliance"`
	AvgConfidence     float64         `json:"avg_confidence"`
	TotalChecks       int             `json:"total_checks"`
	TotalPass         int             `json:"total_pass"`
	TotalFail         int             `json:"total_fail"`
	ModelRankings     []ModelRanking  `json:"model_rankings"`
	CategoryBreakdown []CategoryStats `json:"category_breakdown"`
	BestModel         *string         `json:"best_model"`
	WorstModel        *string         `json:"worst_model"`
}

type modelAccum struct {
	pass, fail, total int
	confidenceSum     float64
}

type categoryAccum struct {
	pass, fail int
}

// Aggregate computes per-model rankings, per-category pass rates, and
// overall statistics. N/A items are excluded from compliance denominators
// but their confidence (zero when absent) still feeds the averages.
// Percentages are rounded to one decimal at this output boundary only.
func Aggregate(results []domain.AuditItem) Stats {
	models := make(map[string]*modelAccum)
	modelOrder := make([]string, 0)
	categories := make(map[string]*categoryAccum)
	categoryOrder := make([]string, 0)

	totalPass, totalFail := 0, 0
	confidenceSum := 0.0

	for _, item := range results {
		m, ok := models[item.ModelName]
		if !ok {
			m = &modelAccum{}
			models[item.ModelName] = m
			modelOrder = append(modelOrder, item.ModelName)
		}
		c, ok := categories[item.RuleCategory]
		if !ok {
			c = &categoryAccum{}
			categories[item.RuleCategory] = c
			categoryOrder = append(categoryOrder, item.RuleCategory)
		}

		m.total++
		m.confidenceSum += item.Evidence.Confidence
		confidenceSum += item.Evidence.Confidence

		switch item.Evidence.Status {
		case domain.StatusPass:
			m.pass++
			c.pass++
			totalPass++
		case domain.StatusFail:
			m.fail++
			c.fail++
			totalFail++
		}
	}

	rankings := make([]ModelRanking, 0, len(modelOrder))
	for _, name := range modelOrder {
		m := models[name]
		rankings = append(rankings, ModelRanking{
			ModelName:       name,
			ComplianceScore: round1(percent(m.pass, m.pass+m.fail)),
			AvgConfidence:   round1(mean(m.confidenceSum, m.total)),
			PassCount:       m.pass,
			FailCount:       m.fail,
			TotalRules:      m.total,
		})
	}

	// Ties keep first-appearance order; no secondary key.
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].ComplianceScore > rankings[j].ComplianceScore
	})

	breakdown := make([]CategoryStats, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		c := categories[name]
		breakdown = append(breakdown, CategoryStats{
			Category:  name,
			PassRate:  round1(percent(c.pass, c.pass+c.fail)),
			PassCount: c.pass,
			FailCount: c.fail,
		})
	}

	stats := Stats{
		OverallCompliance: round1(percent(totalPass, totalPass+totalFail)),
		AvgConfidence:     round1(mean(confidenceSum, len(results))),
		TotalChecks:       len(results),
		TotalPass:         totalPass,
		TotalFail:         totalFail,
		ModelRankings:     rankings,
		CategoryBreakdown: breakdown,
	}

	if len(rankings) > 0 {
		stats.BestModel = &rankings[0].ModelName
		stats.WorstModel = &rankings[len(rankings)-1].ModelName
	}

	return stats
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
