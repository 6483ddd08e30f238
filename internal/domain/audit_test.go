package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvidenceStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusPass.Valid())
	assert.True(t, StatusFail.Valid())
	assert.True(t, StatusNA.Valid())
	assert.False(t, EvidenceStatus("MAYBE").Valid())
	assert.False(t, EvidenceStatus("pass").Valid())
	assert.False(t, EvidenceStatus("").Valid())
}

func TestAuditRunComplete(t *testing.T) {
	t.Parallel()

	run := &AuditRun{TotalModels: 2, TotalRules: 3}
	assert.False(t, run.Complete())

	for i := 0; i < 6; i++ {
		run.Results = append(run.Results, AuditItem{ModelName: "m", RuleID: "1"})
	}
	assert.True(t, run.Complete())
}

func TestModelsAnalyzed(t *testing.T) {
	t.Parallel()

	run := &AuditRun{
		Results: []AuditItem{
			{ModelName: "beta"},
			{ModelName: "alpha"},
			{ModelName: "beta"},
			{ModelName: "gamma"},
			{ModelName: "alpha"},
		},
	}

	// First-appearance order, duplicates removed.
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, run.ModelsAnalyzed())
}

func TestModelsAnalyzedEmpty(t *testing.T) {
	t.Parallel()

	run := &AuditRun{}
	assert.Empty(t, run.ModelsAnalyzed())
}
