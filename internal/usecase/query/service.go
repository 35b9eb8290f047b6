// Package query implements the question answering pipeline: embed, search,
// assemble context, summarize.
package query

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/logger"
	"github.com/askdocs-io/askdocs/internal/metrics"
)

// Source attributes part of an answer to one chunk of one document.
type Source struct {
	DocID      string `json:"doc_id"`
	DocName    string `json:"doc_name"`
	ChunkIndex int    `json:"chunk_index"`
	ChunkText  string `json:"chunk_text"`
}

// Answer is the result of one query.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

// Service answers questions over the ingested documents.
type Service struct {
	embedder    Embedder
	vectors     VectorSearcher
	assembler   ContextAssembler
	docs        DocumentReader
	summarizer  Summarizer
	topK        int
	tokenBudget int
}

// New creates a query service.
func New(
	embedder Embedder,
	vectors VectorSearcher,
	assembler ContextAssembler,
	docs DocumentReader,
	summarizer Summarizer,
) *Service {
	return &Service{
		embedder:    embedder,
		vectors:     vectors,
		assembler:   assembler,
		docs:        docs,
		summarizer:  summarizer,
		topK:        5,
		tokenBudget: 2048,
	}
}

// WithTopK sets the number of nearest neighbors fetched per query.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// WithTokenBudget sets the maximum context size in tokens.
func (s *Service) WithTokenBudget(budget int) *Service {
	if budget > 0 {
		s.tokenBudget = budget
	}
	return s
}

// Query answers text using the owner's documents. The owner id is mandatory:
// retrieval never crosses tenants. With answerOnly the response carries just
// the answer; otherwise each contributing chunk is resolved to its document
// name and returned as a source. A query matching nothing still produces an
// answer: the summarizer is called with an empty context by contract.
func (s *Service) Query(ctx context.Context, text, ownerID string, answerOnly bool) (Answer, error) {
	if text == "" {
		return Answer{}, fmt.Errorf("query text is required: %w", domain.ErrInvalidConfig)
	}
	if ownerID == "" {
		return Answer{}, fmt.Errorf("owner id is required: %w", domain.ErrInvalidConfig)
	}

	embedded, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return Answer{}, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.vectors.SearchKNN(ctx, embedded.Embedding, s.topK, ownerID, "")
	if err != nil {
		return Answer{}, fmt.Errorf("search: %w", err)
	}

	assembled, err := s.assembler.Assemble(ctx, hits, ownerID, s.tokenBudget)
	if err != nil {
		return Answer{}, fmt.Errorf("assemble context: %w", err)
	}

	metrics.ContextTokens.Observe(float64(assembled.Tokens))
	metrics.ContextChunks.Observe(float64(len(assembled.Chunks)))

	logger.FromContext(ctx).Info("context assembled",
		zap.Int("hits", len(hits)),
		zap.Int("chunks", len(assembled.Chunks)),
		zap.Int("tokens", assembled.Tokens))

	answer, err := s.summarizer.Summarize(ctx, text, assembled.Text)
	if err != nil {
		return Answer{}, fmt.Errorf("summarize: %w", err)
	}

	result := Answer{Answer: answer}
	if !answerOnly {
		result.Sources, err = s.resolveSources(ctx, ownerID, assembled.Chunks)
		if err != nil {
			return Answer{}, err
		}
	}
	return result, nil
}

// resolveSources maps context chunks to document names. One lookup per
// distinct document; a missing document, or one owned by another tenant,
// degrades to an empty name rather than failing the whole answer.
func (s *Service) resolveSources(ctx context.Context, ownerID string, chunks []domain.TextChunk) ([]Source, error) {
	names := make(map[string]string)
	sources := make([]Source, 0, len(chunks))

	for _, chunk := range chunks {
		name, ok := names[chunk.DocID()]
		if !ok {
			doc, err := s.docs.Get(ctx, chunk.DocID())
			switch {
			case errors.Is(err, domain.ErrNotFound):
				logger.FromContext(ctx).Warn("context chunk references missing document",
					zap.String("doc_id", chunk.DocID()))
			case err != nil:
				return nil, fmt.Errorf("resolve document %s: %w", chunk.DocID(), err)
			case doc.OwnerID() != ownerID:
				logger.FromContext(ctx).Warn("context chunk resolved to another owner's document",
					zap.String("doc_id", chunk.DocID()))
			default:
				name = doc.Name()
			}
			names[chunk.DocID()] = name
		}

		sources = append(sources, Source{
			DocID:      chunk.DocID(),
			DocName:    name,
			ChunkIndex: chunk.Index(),
			ChunkText:  chunk.Text(),
		})
	}
	return sources, nil
}
