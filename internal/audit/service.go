package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/sentinel/internal/domain"
)

// minPolicyChars rejects documents too short to be a meaningful policy.
const minPolicyChars = 100

// Service is the core-facing audit pipeline: validate the document,
// extract rules, enumerate models, and drive the orchestrator.
type Service struct {
	validator *Validator
	extractor *Extractor
	orch      *Orchestrator
	chunks    domain.ChunkRepository
}

func NewService(validator *Validator, extractor *Extractor, orch *Orchestrator, chunks domain.ChunkRepository) *Service {
	return &Service{
		validator: validator,
		extractor: extractor,
		orch:      orch,
		chunks:    chunks,
	}
}

// Validate exposes the policy validator to the request layer.
func (s *Service) Validate(ctx context.Context, policyText string) Validation {
	return s.validator.Validate(ctx, policyText)
}

// ExtractRules exposes rule extraction to the request layer.
func (s *Service) ExtractRules(ctx context.Context, policyText string) []domain.Rule {
	return s.extractor.ExtractRules(ctx, policyText)
}

// Analyze runs the full batch pipeline and returns the persisted run.
// Input errors (empty text, non-policy document, no models) are surfaced
// before any audit work begins.
func (s *Service) Analyze(ctx context.Context, policyName, policyText string) (*domain.AuditRun, error) {
	models, rules, err := s.prepare(ctx, policyText)
	if err != nil {
		return nil, err
	}

	run, err := s.orch.Run(ctx, policyName, models, rules)
	if err != nil {
		return nil, fmt.Errorf("audit.Service.Analyze: %w", err)
	}

	return run, nil
}

// AnalyzeStream runs the full pipeline, emitting progress events for every
// stage and cell. The channel is closed after the terminal event.
func (s *Service) AnalyzeStream(ctx context.Context, policyName, policyText string) <-chan Event {
	out := make(chan Event, 16)

	go func() {
		defer close(out)

		emit := func(ev Event) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(Event{Name: EventProgress, Data: ProgressEvent{
			Stage:   "validation",
			Message: "Validating policy document...",
		}}) {
			return
		}

		models, rules, err := s.prepare(ctx, policyText)
		if err != nil {
			emit(Event{Name: EventError, Data: ErrorEvent{Error: err.Error()}})
			return
		}

		if !emit(Event{Name: EventProgress, Data: ProgressEvent{
			Stage:      "rules_extracted",
			Message:    fmt.Sprintf("Extracted %d compliance rules", len(rules)),
			TotalRules: len(rules),
		}}) {
			return
		}

		_, inner := s.orch.RunStream(ctx, policyName, models, rules)
		for ev := range inner {
			if !emit(ev) {
				return
			}
		}
	}()

	return out
}

// prepare runs the pre-audit stages shared by both pipeline forms.
func (s *Service) prepare(ctx context.Context, policyText string) ([]string, []domain.Rule, error) {
	if len(strings.TrimSpace(policyText)) < minPolicyChars {
		return nil, nil, domain.ErrEmptyPolicy
	}

	validation := s.validator.Validate(ctx, policyText)
	if !validation.IsPolicy {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrNotPolicy, validation.Reasoning)
	}
	log.Info().Str("reasoning", validation.Reasoning).Msg("policy validation passed")

	rules := s.extractor.ExtractRules(ctx, policyText)

	models, err := s.chunks.ListModels(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("audit.Service: list models: %w", err)
	}
	if len(models) == 0 {
		return nil, nil, domain.ErrNoModels
	}

	return models, rules, nil
}
