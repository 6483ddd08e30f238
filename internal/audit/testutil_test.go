package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/sentinel/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock Completer
// ---------------------------------------------------------------------------

type mockCompleter struct {
	completeFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return m.completeFunc(ctx, prompt)
}

func fixedCompleter(response string) *mockCompleter {
	return &mockCompleter{
		completeFunc: func(_ context.Context, _ string) (string, error) {
			return response, nil
		},
	}
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

func chunksOf(contents ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(contents))
	for _, c := range contents {
		chunks = append(chunks, domain.Chunk{Content: c, ModelName: "gpt-4o", Source: "gpt-4o.txt"})
	}
	return chunks
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	insertFunc func(ctx context.Context, run *domain.AuditRun) error
	inserted   []*domain.AuditRun
}

func (m *mockAuditRepo) Insert(ctx context.Context, run *domain.AuditRun) error {
	if m.insertFunc != nil {
		if err := m.insertFunc(ctx, run); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, run)
	return nil
}

func (m *mockAuditRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.AuditRun, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAuditRepo) GetLatest(_ context.Context) (*domain.AuditRun, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAuditRepo) ListRecent(_ context.Context, _ int) ([]*domain.AuditRun, error) {
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock CellAuditor
// ---------------------------------------------------------------------------

type mockCellAuditor struct {
	auditFunc func(ctx context.Context, modelName string, rule domain.Rule) domain.Evidence
}

func (m *mockCellAuditor) AuditCell(ctx context.Context, modelName string, rule domain.Rule) domain.Evidence {
	return m.auditFunc(ctx, modelName, rule)
}

func passingCellAuditor() *mockCellAuditor {
	return &mockCellAuditor{
		auditFunc: func(_ context.Context, _ string, _ domain.Rule) domain.Evidence {
			return domain.Evidence{Status: domain.StatusPass, Confidence: 90, Quote: "q", Reason: "r"}
		},
	}
}

// ---------------------------------------------------------------------------
// Mock PubSubPublisher
// ---------------------------------------------------------------------------

type mockPublisher struct {
	published map[string][][]byte
}

func (m *mockPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	if m.published == nil {
		m.published = make(map[string][][]byte)
	}
	m.published[channel] = append(m.published[channel], payload)
	return nil
}
