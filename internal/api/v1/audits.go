package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/sentinel/internal/audit"
	"github.com/gosuda/sentinel/internal/dashboard"
	"github.com/gosuda/sentinel/internal/domain"
)

type RunAuditInput struct {
	Body struct {
		PolicyName string `json:"policy_name" minLength:"1" maxLength:"255" doc:"Display name for this audit"`
		PolicyText string `json:"policy_text" minLength:"1" doc:"Raw policy document text"`
	}
}

type RunAuditOutput struct {
	Body struct {
		Run   *domain.AuditRun `json:"run"`
		Stats dashboard.Stats  `json:"stats"`
	}
}

type StreamAuditInput struct {
	Body struct {
		PolicyName string `json:"policy_name" minLength:"1" maxLength:"255" doc:"Display name for this audit"`
		PolicyText string `json:"policy_text" minLength:"1" doc:"Raw policy document text"`
	}
}

type ListAuditsInput struct {
	Limit int `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum audits to return"`
}

type AuditSummary struct {
	ID          uuid.UUID `json:"id"`
	PolicyName  string    `json:"policy_name"`
	TotalRules  int       `json:"total_rules"`
	TotalModels int       `json:"total_models"`
	Models      []string  `json:"models"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListAuditsOutput struct {
	Body []AuditSummary
}

type GetAuditInput struct {
	ID uuid.UUID `path:"id" doc:"Audit run ID"`
}

type GetAuditOutput struct {
	Body struct {
		Run   *domain.AuditRun `json:"run"`
		Stats dashboard.Stats  `json:"stats"`
	}
}

func RegisterAuditRoutes(api huma.API, svc AuditService, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "run-audit",
		Method:      http.MethodPost,
		Path:        "/audits",
		Summary:     "Run a compliance audit and wait for the result",
		Tags:        []string{"Audits"},
	}, func(ctx context.Context, input *RunAuditInput) (*RunAuditOutput, error) {
		run, err := svc.Analyze(ctx, input.Body.PolicyName, input.Body.PolicyText)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrEmptyPolicy):
				return nil, huma.Error400BadRequest("policy text is too short to analyze")
			case errors.Is(err, domain.ErrNotPolicy):
				return nil, huma.Error400BadRequest(err.Error())
			case errors.Is(err, domain.ErrNoModels):
				return nil, huma.Error500InternalServerError("no model documentation has been ingested", err)
			default:
				return nil, huma.Error500InternalServerError("audit failed", err)
			}
		}

		out := &RunAuditOutput{}
		out.Body.Run = run
		out.Body.Stats = dashboard.Aggregate(run.Results)
		return out, nil
	})

	sse.Register(api, huma.Operation{
		OperationID: "stream-audit",
		Method:      http.MethodPost,
		Path:        "/audits/stream",
		Summary:     "Run a compliance audit, streaming progress as server-sent events",
		Tags:        []string{"Audits"},
	}, map[string]any{
		audit.EventProgress: audit.ProgressEvent{},
		audit.EventResult:   audit.ResultEvent{},
		audit.EventComplete: audit.CompleteEvent{},
		audit.EventError:    audit.ErrorEvent{},
	}, func(ctx context.Context, input *StreamAuditInput, send sse.Sender) {
		events := svc.AnalyzeStream(ctx, input.Body.PolicyName, input.Body.PolicyText)
		for ev := range events {
			if err := send.Data(ev.Data); err != nil {
				log.Debug().Err(err).Msg("sse send failed, client gone")
				return
			}
		}
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-audits",
		Method:      http.MethodGet,
		Path:        "/audits",
		Summary:     "List recent audit runs",
		Tags:        []string{"Audits"},
	}, func(ctx context.Context, input *ListAuditsInput) (*ListAuditsOutput, error) {
		runs, err := store.Audits().ListRecent(ctx, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audits", err)
		}

		summaries := make([]AuditSummary, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, AuditSummary{
				ID:          run.ID,
				PolicyName:  run.PolicyName,
				TotalRules:  run.TotalRules,
				TotalModels: run.TotalModels,
				Models:      run.ModelsAnalyzed(),
				CreatedAt:   run.CreatedAt,
			})
		}

		return &ListAuditsOutput{Body: summaries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-audit",
		Method:      http.MethodGet,
		Path:        "/audits/{id}",
		Summary:     "Get a stored audit run with its statistics",
		Tags:        []string{"Audits"},
	}, func(ctx context.Context, input *GetAuditInput) (*GetAuditOutput, error) {
		run, err := store.Audits().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("audit not found")
			}
			return nil, huma.Error500InternalServerError("failed to get audit", err)
		}

		out := &GetAuditOutput{}
		out.Body.Run = run
		out.Body.Stats = dashboard.Aggregate(run.Results)
		return out, nil
	})
}
