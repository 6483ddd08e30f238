package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/sentinel/internal/llm"
)

// maxSampleChars bounds the document prefix sent for classification.
const maxSampleChars = 5000

const validatePrompt = `You are a document classifier. Determine if the following document is a POLICY document (e.g., compliance policy, governance policy, data protection policy, AI ethics policy, etc.).

A policy document typically contains:
- Rules, requirements, or guidelines
- Compliance statements
- Governance frameworks
- Standards or procedures
- Regulatory requirements

Document excerpt:
%s

Return ONLY valid JSON (no markdown) in this exact format:
{"is_policy": true/false, "reasoning": "brief explanation"}

JSON Output:`

// Validation is the classifier's answer on whether a document is a policy.
type Validation struct {
	IsPolicy  bool   `json:"is_policy"`
	Reasoning string `json:"reasoning"`
}

// Validator classifies whether a document is plausibly a policy at all.
// It fails open: a validator outage never blocks an audit.
type Validator struct {
	llm     llm.Completer
	timeout CallTimeout
}

func NewValidator(completer llm.Completer, timeout CallTimeout) *Validator {
	return &Validator{llm: completer, timeout: timeout}
}

// Validate samples a bounded prefix of the document and asks the judgment
// model to classify it. Any error (call or parse) yields a pass-through
// result so the caller can proceed.
func (v *Validator) Validate(ctx context.Context, policyText string) Validation {
	ctx, cancel := v.timeout.apply(ctx)
	defer cancel()

	prompt := fmt.Sprintf(validatePrompt, truncate(policyText, maxSampleChars))

	raw, err := v.llm.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("policy validation call failed, failing open")
		return failOpen()
	}

	var result Validation
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		log.Warn().Err(err).Msg("policy validation response unparseable, failing open")
		return failOpen()
	}

	return result
}

func failOpen() Validation {
	return Validation{
		IsPolicy:  true,
		Reasoning: "Validation check could not be performed, proceeding with analysis",
	}
}
