package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/sentinel/internal/domain"
)

type ValidatePolicyInput struct {
	Body struct {
		PolicyText string `json:"policy_text" minLength:"1" doc:"Raw policy document text"`
	}
}

type ValidatePolicyOutput struct {
	Body struct {
		IsPolicy  bool   `json:"is_policy"`
		Reasoning string `json:"reasoning"`
	}
}

type ExtractRulesInput struct {
	Body struct {
		PolicyText string `json:"policy_text" minLength:"1" doc:"Raw policy document text"`
	}
}

type ExtractRulesOutput struct {
	Body struct {
		Rules []domain.Rule `json:"rules"`
	}
}

func RegisterPolicyRoutes(api huma.API, svc AuditService) {
	huma.Register(api, huma.Operation{
		OperationID: "validate-policy",
		Method:      http.MethodPost,
		Path:        "/policies/validate",
		Summary:     "Check whether a document is an AI policy",
		Tags:        []string{"Policies"},
	}, func(ctx context.Context, input *ValidatePolicyInput) (*ValidatePolicyOutput, error) {
		v := svc.Validate(ctx, input.Body.PolicyText)

		out := &ValidatePolicyOutput{}
		out.Body.IsPolicy = v.IsPolicy
		out.Body.Reasoning = v.Reasoning
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "extract-rules",
		Method:      http.MethodPost,
		Path:        "/policies/rules",
		Summary:     "Extract auditable rules from a policy document",
		Tags:        []string{"Policies"},
	}, func(ctx context.Context, input *ExtractRulesInput) (*ExtractRulesOutput, error) {
		out := &ExtractRulesOutput{}
		out.Body.Rules = svc.ExtractRules(ctx, input.Body.PolicyText)
		return out, nil
	})
}
