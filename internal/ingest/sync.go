package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/sentinel/internal/domain"
)

// SyncDir ingests every .txt file in dir into the chunk store. The file
// stem is the model name; each file replaces that model's chunks wholesale.
func SyncDir(ctx context.Context, repo domain.ChunkRepository, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("ingest.SyncDir: %w", err)
	}

	synced := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		modelName := strings.TrimSuffix(entry.Name(), ".txt")
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("ingest.SyncDir: read %s: %w", entry.Name(), err)
		}

		chunks := chunksFor(modelName, entry.Name(), string(data))
		if len(chunks) == 0 {
			log.Warn().Str("file", entry.Name()).Msg("skipping empty documentation file")
			continue
		}

		if err := repo.ReplaceModel(ctx, modelName, chunks); err != nil {
			return fmt.Errorf("ingest.SyncDir: replace %s: %w", modelName, err)
		}

		log.Info().
			Str("model", modelName).
			Int("chunks", len(chunks)).
			Msg("ingested model documentation")
		synced++
	}

	log.Info().Int("models", synced).Str("dir", dir).Msg("documentation sync complete")
	return nil
}

func chunksFor(modelName, source, text string) []domain.Chunk {
	parts := Split(text)
	chunks := make([]domain.Chunk, 0, len(parts))
	for _, p := range parts {
		chunks = append(chunks, domain.Chunk{
			Content:   p,
			ModelName: modelName,
			Source:    source,
		})
	}
	return chunks
}
