package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/sentinel/internal/domain"
	"github.com/gosuda/sentinel/internal/llm"
)

// maxPolicyChars bounds the policy text sent to the judgment model.
// The prefix is kept; rules stated only late in a very long document
// may be missed.
const maxPolicyChars = 15000

// ruleCount is the number of rules requested from the judgment model.
const ruleCount = 5

const extractPrompt = `You are a policy analysis expert. Extract exactly %d key binary compliance rules from the following policy document.

Each rule must be:
- A clear yes/no question
- Specific and auditable
- Categorized (Safety, Transparency, Data, Evaluation, Documentation, etc.)

Policy Document:
%s

Return ONLY valid JSON (no markdown, no extra text) in this exact format:
[
  {"id": "1", "category": "Safety", "question": "Does the model document red-teaming results?"},
  {"id": "2", "category": "Data", "question": "Is the training data composition disclosed?"},
  {"id": "3", "category": "Transparency", "question": "Are model limitations clearly documented?"},
  {"id": "4", "category": "Evaluation", "question": "Are benchmark results provided?"},
  {"id": "5", "category": "Documentation", "question": "Is there a model card available?"}
]

JSON Output:`

// Extractor turns raw policy text into structured compliance rules using
// the judgment model, falling back to a fixed generic set when the model
// output cannot be used. Extraction never fails the caller.
type Extractor struct {
	llm     llm.Completer
	timeout CallTimeout
}

func NewExtractor(completer llm.Completer, timeout CallTimeout) *Extractor {
	return &Extractor{llm: completer, timeout: timeout}
}

// ExtractRules returns exactly ruleCount rules. Any extraction error
// (call failure, unparseable response, empty list) degrades to the
// fallback rule set rather than surfacing an error.
func (e *Extractor) ExtractRules(ctx context.Context, policyText string) []domain.Rule {
	ctx, cancel := e.timeout.apply(ctx)
	defer cancel()

	prompt := fmt.Sprintf(extractPrompt, ruleCount, truncate(policyText, maxPolicyChars))
	if len(policyText) > maxPolicyChars {
		log.Warn().Int("limit", maxPolicyChars).Int("length", len(policyText)).Msg("policy text truncated for rule extraction")
	}

	raw, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("rule extraction call failed, using fallback rules")
		return FallbackRules()
	}

	var rules []domain.Rule
	if err := json.Unmarshal([]byte(stripFences(raw)), &rules); err != nil {
		log.Warn().Err(err).Str("response", truncate(raw, 500)).Msg("rule extraction response unparseable, using fallback rules")
		return FallbackRules()
	}

	if len(rules) == 0 {
		log.Warn().Msg("rule extraction returned no rules, using fallback rules")
		return FallbackRules()
	}

	log.Info().Int("count", len(rules)).Msg("extracted compliance rules")
	return rules
}

// FallbackRules is the fixed generic rule set used when extraction degrades.
func FallbackRules() []domain.Rule {
	return []domain.Rule{
		{ID: "1", Category: "Safety", Question: "Does the model document red-teaming or adversarial testing?"},
		{ID: "2", Category: "Data", Question: "Is the training data composition disclosed?"},
		{ID: "3", Category: "Transparency", Question: "Are model limitations clearly documented?"},
		{ID: "4", Category: "Evaluation", Question: "Are benchmark results provided?"},
		{ID: "5", Category: "Documentation", Question: "Is there a model card or system card available?"},
	}
}
