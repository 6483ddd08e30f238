package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/sentinel/internal/domain"
	"github.com/gosuda/sentinel/internal/llm"
)

const (
	// topK is the number of documentation chunks retrieved per cell.
	topK = 3
	// maxContextChars bounds the retrieved context passed to the judge.
	maxContextChars = 4000
	// defaultConfidence is assumed when the judge omits a confidence score.
	defaultConfidence = 50.0
	// maxErrorChars bounds the error text recorded on an N/A evidence.
	maxErrorChars = 100
)

const verdictPrompt = `You are a strict compliance auditor. Your job is to determine if the provided model documentation confirms compliance with the given rule.

Rule Question: %s

Model Documentation Context:
%s

Instructions:
- Determine if the documentation confirms compliance (PASS) or not (FAIL)
- Provide a confidence score (0-100%%) based on:
  * 80-100%%: Strong explicit evidence clearly confirming or denying compliance
  * 50-79%%: Moderate evidence with reasonable inference
  * 20-49%%: Weak/indirect evidence or partial information
  * 0-19%%: Insufficient information (use FAIL with low confidence)
- Extract a SHORT exact quote (1-2 sentences max) as evidence
- Provide a brief reason (one sentence)

Return ONLY valid JSON (no markdown) in this exact format:
{"status": "PASS", "confidence": 85.0, "quote": "exact text from context", "reason": "brief explanation"}

JSON Output:`

// verdictPayload is the strict decode target for the judge's response.
// Confidence is a pointer so an omitted score can be distinguished from 0.
type verdictPayload struct {
	Status     string   `json:"status"`
	Confidence *float64 `json:"confidence"`
	Quote      string   `json:"quote"`
	Reason     string   `json:"reason"`
}

// Auditor evaluates one (model, rule) cell: retrieve supporting chunks,
// ask the judgment model for a verdict, and map every failure mode to a
// terminal Evidence value. AuditCell never returns an error; the three-tier
// ladder (no evidence, parse error, other error) guarantees every cell of
// the matrix terminates with a usable, distinguishable result.
type Auditor struct {
	llm     llm.Completer
	chunks  domain.ChunkRepository
	timeout CallTimeout
}

func NewAuditor(completer llm.Completer, chunks domain.ChunkRepository, timeout CallTimeout) *Auditor {
	return &Auditor{llm: completer, chunks: chunks, timeout: timeout}
}

// AuditCell audits a single model against a single rule.
func (a *Auditor) AuditCell(ctx context.Context, modelName string, rule domain.Rule) domain.Evidence {
	ctx, cancel := a.timeout.apply(ctx)
	defer cancel()

	chunks, err := a.chunks.SearchSimilar(ctx, rule.Question, topK, modelName)
	if err != nil {
		log.Warn().Err(err).Str("model", modelName).Str("rule_id", rule.ID).Msg("audit cell retrieval failed")
		return errorEvidence(err)
	}

	// Absence of evidence is presumptive non-compliance, not N/A.
	if len(chunks) == 0 {
		return domain.Evidence{
			Status:     domain.StatusFail,
			Confidence: 20.0,
			Quote:      "No documentation available",
			Reason:     "No documentation found for this model, assuming non-compliance.",
		}
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	context := truncate(strings.Join(parts, "\n\n---\n\n"), maxContextChars)

	raw, err := a.llm.Complete(ctx, fmt.Sprintf(verdictPrompt, rule.Question, context))
	if err != nil {
		log.Warn().Err(err).Str("model", modelName).Str("rule_id", rule.ID).Msg("audit cell judgment call failed")
		return errorEvidence(err)
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		log.Warn().Err(err).Str("model", modelName).Str("rule_id", rule.ID).Msg("audit cell response unparseable")
		return parseErrorEvidence()
	}

	status := domain.EvidenceStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))
	if !status.Valid() {
		log.Warn().Str("status", payload.Status).Str("model", modelName).Str("rule_id", rule.ID).Msg("audit cell verdict has unknown status")
		return parseErrorEvidence()
	}

	confidence := defaultConfidence
	if payload.Confidence != nil {
		confidence = clamp(*payload.Confidence, 0, 100)
	}

	return domain.Evidence{
		Status:     status,
		Confidence: confidence,
		Quote:      payload.Quote,
		Reason:     payload.Reason,
	}
}

func parseErrorEvidence() domain.Evidence {
	return domain.Evidence{
		Status:     domain.StatusFail,
		Confidence: 10.0,
		Quote:      "Error occurred during analysis",
		Reason:     "Error parsing LLM response.",
	}
}

func errorEvidence(err error) domain.Evidence {
	return domain.Evidence{
		Status: domain.StatusNA,
		Reason: "Error during audit: " + truncate(err.Error(), maxErrorChars),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
