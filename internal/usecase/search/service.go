// Package search exposes read-only projections of the index for listing UIs.
package search

import (
	"context"
	"fmt"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// DocumentSummary is one listed document without its full text.
type DocumentSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	Documents []DocumentSummary `json:"documents"`
	Total     int               `json:"total"`
	Offset    int               `json:"offset"`
}

// Service serves document listings.
type Service struct {
	docs            DocumentRepo
	chunks          ChunkCounter
	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(docs DocumentRepo, chunks ChunkCounter) *Service {
	return &Service{
		docs:            docs,
		chunks:          chunks,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// ListDocuments returns the owner's documents with chunk counts. The owner
// id is mandatory: listings never cross tenants.
func (s *Service) ListDocuments(ctx context.Context, ownerID string, offset, limit int) (DocumentPage, error) {
	if ownerID == "" {
		return DocumentPage{}, fmt.Errorf("owner id is required: %w", domain.ErrInvalidConfig)
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	docs, total, err := s.docs.List(ctx, ownerID, offset, limit)
	if err != nil {
		return DocumentPage{}, fmt.Errorf("list documents: %w", err)
	}

	page := DocumentPage{
		Documents: make([]DocumentSummary, 0, len(docs)),
		Total:     total,
		Offset:    offset,
	}
	for _, doc := range docs {
		count, err := s.chunks.Count(ctx, doc.ID())
		if err != nil {
			return DocumentPage{}, fmt.Errorf("count chunks of %s: %w", doc.ID(), err)
		}
		page.Documents = append(page.Documents, DocumentSummary{
			ID:     doc.ID(),
			Name:   doc.Name(),
			Source: doc.Source(),
			Chunks: count,
		})
	}
	return page, nil
}

// GetDocument returns the owner's document including its extracted text.
// Another tenant's document reads as absent.
func (s *Service) GetDocument(ctx context.Context, id, ownerID string) (DocumentSummary, string, error) {
	if ownerID == "" {
		return DocumentSummary{}, "", fmt.Errorf("owner id is required: %w", domain.ErrInvalidConfig)
	}
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return DocumentSummary{}, "", err
	}
	if doc.OwnerID() != ownerID {
		return DocumentSummary{}, "", fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	count, err := s.chunks.Count(ctx, id)
	if err != nil {
		return DocumentSummary{}, "", fmt.Errorf("count chunks of %s: %w", id, err)
	}
	return DocumentSummary{
		ID:     doc.ID(),
		Name:   doc.Name(),
		Source: doc.Source(),
		Chunks: count,
	}, doc.Text(), nil
}
