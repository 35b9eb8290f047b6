package ingest

import (
	"context"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// DocumentRepo persists documents.
type DocumentRepo interface {
	Save(ctx context.Context, doc domain.Document) error
}

// ChunkRepo persists text chunks.
type ChunkRepo interface {
	SaveMulti(ctx context.Context, chunks []domain.TextChunk) error
}

// VectorRepo persists chunk embeddings.
type VectorRepo interface {
	SaveMulti(ctx context.Context, records []domain.EmbeddingRecord) error
}

// Extractor turns a source file into plain text.
type Extractor interface {
	Extract(ctx context.Context, filename string) (string, error)
}

// BatchEmbedder vectorizes all chunks of one document in a single call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Chunker splits document text into ordered chunks.
type Chunker interface {
	Chunk(text string) []string
}
