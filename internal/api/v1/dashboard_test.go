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
	"github.com/gosuda/sentinel/internal/dashboard"
	"github.com/gosuda/sentinel/internal/domain"
)

// ---------------------------------------------------------------------------
// GET /dashboard
// ---------------------------------------------------------------------------

func TestGetDashboard(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		run := sampleRun()
		_, api := humatest.New(t)
		store := &mockDataStore{
			audits: &mockAuditRepo{
				getLatestFunc: func(_ context.Context) (*domain.AuditRun, error) {
					return run, nil
				},
			},
		}
		v1.RegisterDashboardRoutes(api, store)

		resp := api.Get("/dashboard")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			AuditID    string          `json:"audit_id"`
			PolicyName string          `json:"policy_name"`
			Stats      dashboard.Stats `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, run.ID.String(), body.AuditID)
		assert.Equal(t, "EU AI Act", body.PolicyName)
		assert.Equal(t, 50.0, body.Stats.OverallCompliance)
	})

	t.Run("no_audits_is_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audits: &mockAuditRepo{
				getLatestFunc: func(_ context.Context) (*domain.AuditRun, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterDashboardRoutes(api, store)

		resp := api.Get("/dashboard")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /stats
// ---------------------------------------------------------------------------

func TestGetStats(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	store := &mockDataStore{
		audits: &mockAuditRepo{
			listRecentFunc: func(_ context.Context, limit int) ([]*domain.AuditRun, error) {
				assert.Equal(t, 100, limit)
				return []*domain.AuditRun{sampleRun(), sampleRun()}, nil
			},
		},
	}
	v1.RegisterDashboardRoutes(api, store)

	resp := api.Get("/stats")

	require.Equal(t, http.StatusOK, resp.Code)

	var body dashboard.Overview
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalAudits)
	assert.Equal(t, 2, body.TotalModelsAudited)
	assert.Equal(t, 50.0, body.AvgComplianceRate)
	assert.Len(t, body.RecentAudits, 2)
}

// ---------------------------------------------------------------------------
// POST /compare
// ---------------------------------------------------------------------------

func TestCompareModels(t *testing.T) {
	t.Parallel()

	t.Run("filters_requested_models", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audits: &mockAuditRepo{
				getLatestFunc: func(_ context.Context) (*domain.AuditRun, error) {
					return sampleRun(), nil
				},
			},
		}
		v1.RegisterDashboardRoutes(api, store)

		resp := api.Post("/compare", map[string]any{
			"model_names": []string{"gpt-4o"},
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			PolicyName string                                `json:"policy_name"`
			Comparison map[string]dashboard.ModelComparison `json:"comparison"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "EU AI Act", body.PolicyName)
		require.Len(t, body.Comparison, 1)
		assert.Equal(t, 100.0, body.Comparison["gpt-4o"].ComplianceScore)
	})

	t.Run("no_audits_is_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audits: &mockAuditRepo{
				getLatestFunc: func(_ context.Context) (*domain.AuditRun, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterDashboardRoutes(api, store)

		resp := api.Post("/compare", map[string]any{})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /models
// ---------------------------------------------------------------------------

func TestListModels(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	store := &mockDataStore{
		chunks: &mockChunkRepo{
			listModelsFunc: func(_ context.Context) ([]string, error) {
				return []string{"claude-3", "gpt-4o"}, nil
			},
		},
	}
	v1.RegisterDashboardRoutes(api, store)

	resp := api.Get("/models")

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Models []string `json:"models"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, []string{"claude-3", "gpt-4o"}, body.Models)
}
