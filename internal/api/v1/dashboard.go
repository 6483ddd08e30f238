package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/sentinel/internal/dashboard"
	"github.com/gosuda/sentinel/internal/domain"
)

// overviewWindow caps how many past runs feed the cross-audit overview.
const overviewWindow = 100

type GetDashboardOutput struct {
	Body struct {
		AuditID    string          `json:"audit_id"`
		PolicyName string          `json:"policy_name"`
		Stats      dashboard.Stats `json:"stats"`
	}
}

type GetOverviewOutput struct {
	Body dashboard.Overview
}

type CompareModelsInput struct {
	Body struct {
		ModelNames []string `json:"model_names,omitempty" doc:"Models to compare; empty compares all"`
	}
}

type CompareModelsOutput struct {
	Body struct {
		PolicyName string                                `json:"policy_name"`
		Comparison map[string]dashboard.ModelComparison `json:"comparison"`
	}
}

type ListModelsOutput struct {
	Body struct {
		Models []string `json:"models"`
	}
}

func RegisterDashboardRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Compliance dashboard for the latest audit",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*GetDashboardOutput, error) {
		run, err := store.Audits().GetLatest(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no audit results found")
			}
			return nil, huma.Error500InternalServerError("failed to load dashboard", err)
		}

		out := &GetDashboardOutput{}
		out.Body.AuditID = run.ID.String()
		out.Body.PolicyName = run.PolicyName
		out.Body.Stats = dashboard.Aggregate(run.Results)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Aggregate statistics across recent audits",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*GetOverviewOutput, error) {
		runs, err := store.Audits().ListRecent(ctx, overviewWindow)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load stats", err)
		}

		return &GetOverviewOutput{Body: dashboard.BuildOverview(runs)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "compare-models",
		Method:      http.MethodPost,
		Path:        "/compare",
		Summary:     "Compare model compliance on the latest audit",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, input *CompareModelsInput) (*CompareModelsOutput, error) {
		run, err := store.Audits().GetLatest(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no audit results found")
			}
			return nil, huma.Error500InternalServerError("failed to compare models", err)
		}

		out := &CompareModelsOutput{}
		out.Body.PolicyName = run.PolicyName
		out.Body.Comparison = dashboard.Compare(run.Results, input.Body.ModelNames)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-models",
		Method:      http.MethodGet,
		Path:        "/models",
		Summary:     "List models with ingested documentation",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*ListModelsOutput, error) {
		models, err := store.Chunks().ListModels(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list models", err)
		}

		out := &ListModelsOutput{}
		out.Body.Models = models
		return out, nil
	})
}
