package query

import (
	"context"

	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/retriever"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorSearcher runs KNN search over stored chunk embeddings.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, queryVector []float32, k int, ownerID, docID string) ([]domain.SearchHit, error)
}

// ContextAssembler builds the token-budgeted context from ranked hits.
type ContextAssembler interface {
	Assemble(ctx context.Context, hits []domain.SearchHit, ownerID string, tokenBudget int) (retriever.Result, error)
}

// DocumentReader resolves document metadata for source attribution.
type DocumentReader interface {
	Get(ctx context.Context, id string) (domain.Document, error)
}

// Summarizer produces the final answer from query and context.
type Summarizer interface {
	Summarize(ctx context.Context, query, context string) (string, error)
}
