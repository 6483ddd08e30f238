package audit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/sentinel/internal/domain"
)

// CellAuditor evaluates one (model, rule) cell. *Auditor satisfies this.
type CellAuditor interface {
	AuditCell(ctx context.Context, modelName string, rule domain.Rule) domain.Evidence
}

// PubSubPublisher abstracts the pub/sub publish operation used to fan out
// live progress to watchers.
type PubSubPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// CompletionNotifier announces a persisted audit run, e.g. to a Slack
// channel. Failures are logged, never surfaced.
type CompletionNotifier interface {
	AuditCompleted(ctx context.Context, run *domain.AuditRun) error
}

// StreamChannel returns the pub/sub channel name for a run's live events.
func StreamChannel(runID uuid.UUID) string {
	return "audit:" + runID.String()
}

// Orchestrator drives the Evidence Auditor over the full model x rule
// matrix in fixed nested order (models outer, rules inner, both in input
// order). Every cell is isolated: a degraded cell never aborts the run.
type Orchestrator struct {
	auditor  CellAuditor
	audits   domain.AuditRepository
	pubsub   PubSubPublisher    // nil disables fan-out
	notifier CompletionNotifier // nil disables notifications
}

func NewOrchestrator(auditor CellAuditor, audits domain.AuditRepository, pubsub PubSubPublisher, notifier CompletionNotifier) *Orchestrator {
	return &Orchestrator{auditor: auditor, audits: audits, pubsub: pubsub, notifier: notifier}
}

func newRun(policyName string, models []string, rules []domain.Rule) *domain.AuditRun {
	return &domain.AuditRun{
		ID:          uuid.New(),
		PolicyName:  policyName,
		TotalRules:  len(rules),
		TotalModels: len(models),
		Rules:       rules,
		Results:     make([]domain.AuditItem, 0, len(models)*len(rules)),
		CreatedAt:   time.Now().UTC(),
	}
}

// Run evaluates the full matrix, persists the result set, and returns it.
// Cancellation between cells aborts the run without persisting.
func (o *Orchestrator) Run(ctx context.Context, policyName string, models []string, rules []domain.Rule) (*domain.AuditRun, error) {
	run := newRun(policyName, models, rules)
	total := len(models) * len(rules)

	log.Info().Int("models", len(models)).Int("rules", len(rules)).Int("total", total).Msg("starting audit")

	for _, model := range models {
		for _, rule := range rules {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("audit.Orchestrator.Run: %w", err)
			}

			evidence := o.auditor.AuditCell(ctx, model, rule)
			run.Results = append(run.Results, domain.AuditItem{
				ModelName:    model,
				RuleID:       rule.ID,
				RuleQuestion: rule.Question,
				RuleCategory: rule.Category,
				Evidence:     evidence,
			})
		}
	}

	if err := o.audits.Insert(ctx, run); err != nil {
		return nil, fmt.Errorf("audit.Orchestrator.Run: persist: %w", err)
	}

	log.Info().Str("audit_id", run.ID.String()).Int("results", len(run.Results)).Msg("audit complete")
	o.notify(ctx, run)
	return run, nil
}

func (o *Orchestrator) notify(ctx context.Context, run *domain.AuditRun) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.AuditCompleted(ctx, run); err != nil {
		log.Warn().Err(err).Str("audit_id", run.ID.String()).Msg("audit completion notification failed")
	}
}

// RunStream evaluates the matrix like Run but emits typed events as each
// cell completes. The returned channel is closed after the terminal
// "complete" or "error" event. If the consumer's context is cancelled, the
// current cell finishes, no further cells are scheduled, and the partial
// result set is discarded rather than persisted.
func (o *Orchestrator) RunStream(ctx context.Context, policyName string, models []string, rules []domain.Rule) (uuid.UUID, <-chan Event) {
	run := newRun(policyName, models, rules)
	events := make(chan Event, 16)

	go func() {
		defer close(events)
		o.stream(ctx, run, models, rules, events)
	}()

	return run.ID, events
}

func (o *Orchestrator) stream(ctx context.Context, run *domain.AuditRun, models []string, rules []domain.Rule, events chan<- Event) {
	total := len(models) * len(rules)

	emit := func(ev Event) bool {
		o.publish(ctx, run.ID, ev)
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit(Event{Name: EventProgress, Data: ProgressEvent{
		Stage:       "audit_start",
		Message:     fmt.Sprintf("Auditing %d models against %d rules", len(models), len(rules)),
		TotalModels: len(models),
		TotalRules:  len(rules),
		TotalAudits: total,
	}}) {
		return
	}

	completed := 0
	for mi, model := range models {
		for ri, rule := range rules {
			if ctx.Err() != nil {
				log.Info().Str("audit_id", run.ID.String()).Int("completed", completed).Msg("audit stream cancelled, discarding partial results")
				return
			}

			if !emit(Event{Name: EventProgress, Data: ProgressEvent{
				Stage:        "auditing",
				Message:      fmt.Sprintf("Checking rule %d/%d for %s", ri+1, len(rules), model),
				Model:        model,
				ModelNumber:  mi + 1,
				TotalModels:  len(models),
				RuleNumber:   ri + 1,
				TotalRules:   len(rules),
				RuleCategory: rule.Category,
			}}) {
				return
			}

			evidence := o.auditor.AuditCell(ctx, model, rule)
			run.Results = append(run.Results, domain.AuditItem{
				ModelName:    model,
				RuleID:       rule.ID,
				RuleQuestion: rule.Question,
				RuleCategory: rule.Category,
				Evidence:     evidence,
			})
			completed++

			if !emit(Event{Name: EventResult, Data: ResultEvent{
				Model:        model,
				RuleID:       rule.ID,
				RuleCategory: rule.Category,
				RuleQuestion: rule.Question,
				Status:       string(evidence.Status),
				Completed:    completed,
				Total:        total,
				Progress:     round1(float64(completed) / float64(total) * 100),
			}}) {
				return
			}
		}
	}

	if err := o.audits.Insert(ctx, run); err != nil {
		log.Error().Err(err).Str("audit_id", run.ID.String()).Msg("failed to persist audit run")
		emit(Event{Name: EventError, Data: ErrorEvent{Error: "failed to store audit results"}})
		return
	}

	o.notify(ctx, run)

	emit(Event{Name: EventComplete, Data: CompleteEvent{
		AuditID:     run.ID.String(),
		PolicyName:  run.PolicyName,
		TotalRules:  run.TotalRules,
		TotalModels: run.TotalModels,
		TotalAudits: len(run.Results),
		Message:     "Audit complete!",
	}})
}

// publish fans the event out to pub/sub watchers. Best effort: a publish
// failure never disturbs the stream.
func (o *Orchestrator) publish(ctx context.Context, runID uuid.UUID, ev Event) {
	if o.pubsub == nil {
		return
	}

	payload, err := ev.Marshal()
	if err != nil {
		log.Debug().Err(err).Msg("audit event marshal failed")
		return
	}

	if err := o.pubsub.Publish(ctx, StreamChannel(runID), payload); err != nil {
		log.Debug().Err(err).Msg("audit event publish failed")
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
