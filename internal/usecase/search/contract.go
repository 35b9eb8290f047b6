package search

import (
	"context"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// DocumentRepo lists and reads stored documents.
type DocumentRepo interface {
	Get(ctx context.Context, id string) (domain.Document, error)
	List(ctx context.Context, ownerID string, offset, limit int) ([]domain.Document, int, error)
}

// ChunkCounter counts a document's indexed chunks.
type ChunkCounter interface {
	Count(ctx context.Context, docID string) (int, error)
}
