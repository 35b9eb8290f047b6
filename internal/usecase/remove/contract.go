package remove

import (
	"context"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// DocumentRepo reads and deletes documents by id.
type DocumentRepo interface {
	Get(ctx context.Context, id string) (domain.Document, error)
	Delete(ctx context.Context, id string) error
}

// ChunkRepo deletes all chunks of a document.
type ChunkRepo interface {
	DeleteByDoc(ctx context.Context, docID string) (int, error)
}

// VectorRepo deletes all embeddings of a document.
type VectorRepo interface {
	DeleteByDoc(ctx context.Context, docID string) (int, error)
}
