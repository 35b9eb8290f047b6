// Package remove implements cascading document removal across the three
// collections.
package remove

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/logger"
	"github.com/askdocs-io/askdocs/internal/metrics"
)

// Service removes documents and their dependents.
type Service struct {
	docs    DocumentRepo
	chunks  ChunkRepo
	vectors VectorRepo
}

// New creates a removal service.
func New(docs DocumentRepo, chunks ChunkRepo, vectors VectorRepo) *Service {
	return &Service{docs: docs, chunks: chunks, vectors: vectors}
}

// Remove deletes the owner's document, then its chunks, then its embeddings.
// The three deletes are not atomic; a mid-sequence failure leaves orphaned
// dependents, and because every delete is idempotent the safe recovery is
// re-running the call. Removing an unknown docID succeeds with nothing
// deleted, and another owner's document is indistinguishable from an unknown
// one.
func (s *Service) Remove(ctx context.Context, docID, ownerID string) error {
	if docID == "" {
		return fmt.Errorf("doc id is required: %w", domain.ErrInvalidConfig)
	}
	if ownerID == "" {
		return fmt.Errorf("owner id is required: %w", domain.ErrInvalidConfig)
	}

	doc, err := s.docs.Get(ctx, docID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("load document: %w", err)
	case doc.OwnerID() != ownerID:
		return nil
	}

	if err := s.docs.Delete(ctx, docID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	metrics.RemovedRecordsTotal.WithLabelValues(domain.CollectionDocs).Inc()

	chunksRemoved, err := s.chunks.DeleteByDoc(ctx, docID)
	metrics.RemovedRecordsTotal.WithLabelValues(domain.CollectionChunks).Add(float64(chunksRemoved))
	if err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}

	vectorsRemoved, err := s.vectors.DeleteByDoc(ctx, docID)
	metrics.RemovedRecordsTotal.WithLabelValues(domain.CollectionVectors).Add(float64(vectorsRemoved))
	if err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}

	logger.FromContext(ctx).Info("document removed",
		zap.String("doc_id", docID),
		zap.Int("chunks_removed", chunksRemoved),
		zap.Int("vectors_removed", vectorsRemoved))

	return nil
}
