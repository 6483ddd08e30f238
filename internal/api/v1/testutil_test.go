package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/sentinel/internal/audit"
	"github.com/gosuda/sentinel/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	audits domain.AuditRepository
	chunks domain.ChunkRepository
}

func (m *mockDataStore) Audits() domain.AuditRepository { return m.audits }
func (m *mockDataStore) Chunks() domain.ChunkRepository { return m.chunks }

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	insertFunc     func(ctx context.Context, run *domain.AuditRun) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.AuditRun, error)
	getLatestFunc  func(ctx context.Context) (*domain.AuditRun, error)
	listRecentFunc func(ctx context.Context, limit int) ([]*domain.AuditRun, error)
}

func (m *mockAuditRepo) Insert(ctx context.Context, run *domain.AuditRun) error {
	return m.insertFunc(ctx, run)
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditRun, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockAuditRepo) GetLatest(ctx context.Context) (*domain.AuditRun, error) {
	return m.getLatestFunc(ctx)
}

func (m *mockAuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AuditRun, error) {
	return m.listRecentFunc(ctx, limit)
}

// ---------------------------------------------------------------------------
// Mock ChunkRepository
// ---------------------------------------------------------------------------

type mockChunkRepo struct {
	searchFunc     func(ctx context.Context, query string, k int, modelName string) ([]domain.Chunk, error)
	listModelsFunc func(ctx context.Context) ([]string, error)
	replaceFunc    func(ctx context.Context, modelName string, chunks []domain.Chunk) error
}

func (m *mockChunkRepo) SearchSimilar(ctx context.Context, query string, k int, modelName string) ([]domain.Chunk, error) {
	return m.searchFunc(ctx, query, k, modelName)
}

func (m *mockChunkRepo) ListModels(ctx context.Context) ([]string, error) {
	return m.listModelsFunc(ctx)
}

func (m *mockChunkRepo) ReplaceModel(ctx context.Context, modelName string, chunks []domain.Chunk) error {
	return m.replaceFunc(ctx, modelName, chunks)
}

// ---------------------------------------------------------------------------
// Mock AuditService
// ---------------------------------------------------------------------------

type mockAuditService struct {
	validateFunc      func(ctx context.Context, policyText string) audit.Validation
	extractRulesFunc  func(ctx context.Context, policyText string) []domain.Rule
	analyzeFunc       func(ctx context.Context, policyName, policyText string) (*domain.AuditRun, error)
	analyzeStreamFunc func(ctx context.Context, policyName, policyText string) <-chan audit.Event
}

func (m *mockAuditService) Validate(ctx context.Context, policyText string) audit.Validation {
	return m.validateFunc(ctx, policyText)
}

func (m *mockAuditService) ExtractRules(ctx context.Context, policyText string) []domain.Rule {
	return m.extractRulesFunc(ctx, policyText)
}

func (m *mockAuditService) Analyze(ctx context.Context, policyName, policyText string) (*domain.AuditRun, error) {
	return m.analyzeFunc(ctx, policyName, policyText)
}

func (m *mockAuditService) AnalyzeStream(ctx context.Context, policyName, policyText string) <-chan audit.Event {
	return m.analyzeStreamFunc(ctx, policyName, policyText)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func sampleRun() *domain.AuditRun {
	return &domain.AuditRun{
		ID:          uuid.New(),
		PolicyName:  "EU AI Act",
		TotalRules:  1,
		TotalModels: 2,
		Rules: []domain.Rule{
			{ID: "1", Category: "Safety", Question: "Does the documentation describe red-teaming?"},
		},
		Results: []domain.AuditItem{
			{
				ModelName:    "gpt-4o",
				RuleID:       "1",
				RuleQuestion: "Does the documentation describe red-teaming?",
				RuleCategory: "Safety",
				Evidence:     domain.Evidence{Status: domain.StatusPass, Confidence: 90, Quote: "We red-team.", Reason: "Documented."},
			},
			{
				ModelName:    "claude-3",
				RuleID:       "1",
				RuleQuestion: "Does the documentation describe red-teaming?",
				RuleCategory: "Safety",
				Evidence:     domain.Evidence{Status: domain.StatusFail, Confidence: 40, Quote: "", Reason: "Not mentioned."},
			},
		},
	}
}
