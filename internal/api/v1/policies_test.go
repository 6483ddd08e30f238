package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/sentinel/internal/api/v1"
	"github.com/gosuda/sentinel/internal/audit"
	"github.com/gosuda/sentinel/internal/domain"
)

// ---------------------------------------------------------------------------
// POST /policies/validate
// ---------------------------------------------------------------------------

func TestValidatePolicy(t *testing.T) {
	t.Parallel()

	t.Run("accepts_policy", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuditService{
			validateFunc: func(_ context.Context, _ string) audit.Validation {
				return audit.Validation{IsPolicy: true, Reasoning: "Governance requirements present."}
			},
		}
		v1.RegisterPolicyRoutes(api, svc)

		resp := api.Post("/policies/validate", map[string]any{
			"policy_text": "All providers shall document safety evaluations.",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			IsPolicy  bool   `json:"is_policy"`
			Reasoning string `json:"reasoning"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.True(t, body.IsPolicy)
		assert.Equal(t, "Governance requirements present.", body.Reasoning)
	})

	t.Run("rejects_non_policy", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuditService{
			validateFunc: func(_ context.Context, _ string) audit.Validation {
				return audit.Validation{IsPolicy: false, Reasoning: "Looks like a recipe."}
			},
		}
		v1.RegisterPolicyRoutes(api, svc)

		resp := api.Post("/policies/validate", map[string]any{
			"policy_text": "Whisk two eggs with flour.",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			IsPolicy bool `json:"is_policy"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.False(t, body.IsPolicy)
	})
}

// ---------------------------------------------------------------------------
// POST /policies/rules
// ---------------------------------------------------------------------------

func TestExtractRules(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	svc := &mockAuditService{
		extractRulesFunc: func(_ context.Context, _ string) []domain.Rule {
			return []domain.Rule{
				{ID: "1", Category: "Safety", Question: "Does the documentation describe red-teaming?"},
				{ID: "2", Category: "Transparency", Question: "Are limitations disclosed?"},
			}
		},
	}
	v1.RegisterPolicyRoutes(api, svc)

	resp := api.Post("/policies/rules", map[string]any{
		"policy_text": "Providers shall red-team models and disclose limitations.",
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Rules []domain.Rule `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Rules, 2)
	assert.Equal(t, "Safety", body.Rules[0].Category)
}
