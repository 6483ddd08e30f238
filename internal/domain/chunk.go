package domain

import "context"

// Chunk is one retrievable fragment of model documentation.
type Chunk struct {
	Content   string `json:"content"`
	ModelName string `json:"model_name"`
	Source    string `json:"source"`
}

// ChunkRepository is the retrieval service contract: relevance-ordered
// similarity search over documentation chunks, filterable by model.
type ChunkRepository interface {
	// SearchSimilar returns up to k chunks for the given model, most
	// relevant first. An empty result is not an error.
	SearchSimilar(ctx context.Context, query string, k int, modelName string) ([]Chunk, error)
	// ListModels returns the distinct model names with stored documentation.
	ListModels(ctx context.Context) ([]string, error)
	// ReplaceModel atomically replaces all chunks for one model.
	ReplaceModel(ctx context.Context, modelName string, chunks []Chunk) error
}
