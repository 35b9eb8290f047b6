// Package retriever assembles a token-budgeted context string from ranked
// vector search hits by expanding outward into neighboring chunks.
package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// chunkSource is the consumer interface for ordered chunk page reads (ISP).
type chunkSource interface {
	GetPage(ctx context.Context, docID, ownerID string, startIndex, count int) ([]domain.TextChunk, error)
}

// Result is one assembled context.
type Result struct {
	// Text is the context string, chunks joined by single spaces in
	// ascending (docID, index) order. Empty when nothing fit the budget.
	Text string
	// Chunks are the included chunks in concatenation order.
	Chunks []domain.TextChunk
	// Tokens is Text's measured token count, always <= the budget.
	Tokens int
}

// Retriever expands ranked hits breadth-first into their document
// neighborhoods until the token budget is reached. Expansion grows every
// matching region simultaneously instead of exhausting the budget on the
// best-scoring hit alone.
type Retriever struct {
	chunks          chunkSource
	counter         domain.TokenCounter
	windowHalfWidth int
	scoreThreshold  float64
	logger          *zap.Logger
}

// New creates a context retriever.
func New(chunks chunkSource, counter domain.TokenCounter, logger *zap.Logger) *Retriever {
	return &Retriever{
		chunks:          chunks,
		counter:         counter,
		windowHalfWidth: 2,
		logger:          logger,
	}
}

// WithWindowHalfWidth sets how many neighboring chunks are prefetched on each
// side of a hit. It limits prefetching, not expansion depth.
func (r *Retriever) WithWindowHalfWidth(w int) *Retriever {
	if w >= 0 {
		r.windowHalfWidth = w
	}
	return r
}

// WithScoreThreshold drops hits scoring below the threshold before expansion.
func (r *Retriever) WithScoreThreshold(t float64) *Retriever {
	r.scoreThreshold = t
	return r
}

// Assemble builds the context for the given ranked hits. Hit order is
// preserved as the expansion order; it is never resorted, so equal inputs
// produce equal contexts. The first candidate that would push the context
// past tokenBudget is rolled back and expansion stops entirely, which keeps
// the returned text a complete, never-truncated concatenation. Zero usable
// hits, or a first hit that alone exceeds the budget, produce an empty Result.
func (r *Retriever) Assemble(
	ctx context.Context, hits []domain.SearchHit, ownerID string, tokenBudget int,
) (Result, error) {
	hits = r.filterByScore(hits)
	if len(hits) == 0 {
		return Result{}, nil
	}

	cache, err := r.prefetch(ctx, hits, ownerID)
	if err != nil {
		return Result{}, err
	}

	// Seed the FIFO queue in hit arrival order.
	queue := make([]domain.ChunkRef, 0, len(hits))
	queued := make(map[domain.ChunkRef]bool, len(hits))
	for _, hit := range hits {
		ref := domain.ChunkRef{DocID: hit.DocID, Index: hit.ChunkIndex}
		if !queued[ref] {
			queue = append(queue, ref)
			queued[ref] = true
		}
	}

	included := make(map[domain.ChunkRef]string)
	var accepted Result

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		if _, ok := included[ref]; ok {
			continue
		}
		chunk, ok := cache[ref]
		if !ok {
			// A hit outside its document's prefetched page. The page is
			// centered on the lowest hit per document, so distant hits in
			// the same document can land here.
			r.logger.Debug("candidate chunk not prefetched, skipping",
				zap.String("doc_id", ref.DocID),
				zap.Int("index", ref.Index))
			continue
		}

		included[ref] = chunk.Text()
		text := concatenate(included)
		tokens := r.counter.CountTokens(text)
		if tokens > tokenBudget {
			delete(included, ref)
			break
		}

		accepted.Text = text
		accepted.Tokens = tokens

		for _, neighbor := range []domain.ChunkRef{
			{DocID: ref.DocID, Index: ref.Index - 1},
			{DocID: ref.DocID, Index: ref.Index + 1},
		} {
			if _, cached := cache[neighbor]; !cached {
				continue
			}
			if _, in := included[neighbor]; in || queued[neighbor] {
				continue
			}
			queue = append(queue, neighbor)
			queued[neighbor] = true
		}
	}

	accepted.Chunks = orderedChunks(included, cache)
	return accepted, nil
}

// prefetch loads one chunk page per distinct document, centered on the lowest
// hit index of that document, and caches the chunks by (docID, index). A chunk
// fetched for one hit is reused by neighboring hits without a second read.
func (r *Retriever) prefetch(
	ctx context.Context, hits []domain.SearchHit, ownerID string,
) (map[domain.ChunkRef]domain.TextChunk, error) {
	minIndex := make(map[string]int)
	docOrder := make([]string, 0)
	for _, hit := range hits {
		idx, seen := minIndex[hit.DocID]
		if !seen {
			minIndex[hit.DocID] = hit.ChunkIndex
			docOrder = append(docOrder, hit.DocID)
		} else if hit.ChunkIndex < idx {
			minIndex[hit.DocID] = hit.ChunkIndex
		}
	}

	cache := make(map[domain.ChunkRef]domain.TextChunk)
	for _, docID := range docOrder {
		start := minIndex[docID] - r.windowHalfWidth
		if start < 0 {
			start = 0
		}
		// The page spans the hit plus windowHalfWidth chunks on each side.
		count := 2*r.windowHalfWidth + 1

		page, err := r.chunks.GetPage(ctx, docID, ownerID, start, count)
		if err != nil {
			return nil, fmt.Errorf("prefetch chunks of %s: %w", docID, err)
		}
		for _, chunk := range page {
			cache[domain.ChunkRef{DocID: chunk.DocID(), Index: chunk.Index()}] = chunk
		}
	}
	return cache, nil
}

func (r *Retriever) filterByScore(hits []domain.SearchHit) []domain.SearchHit {
	if r.scoreThreshold <= 0 {
		return hits
	}
	kept := make([]domain.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= r.scoreThreshold {
			kept = append(kept, hit)
		}
	}
	return kept
}

// concatenate joins the included chunk texts in ascending (docID, index)
// order with single spaces.
func concatenate(included map[domain.ChunkRef]string) string {
	refs := sortedRefs(included)
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = included[ref]
	}
	return strings.Join(parts, " ")
}

func orderedChunks(
	included map[domain.ChunkRef]string, cache map[domain.ChunkRef]domain.TextChunk,
) []domain.TextChunk {
	refs := sortedRefs(included)
	chunks := make([]domain.TextChunk, 0, len(refs))
	for _, ref := range refs {
		chunks = append(chunks, cache[ref])
	}
	return chunks
}

func sortedRefs(included map[domain.ChunkRef]string) []domain.ChunkRef {
	refs := make([]domain.ChunkRef, 0, len(included))
	for ref := range included {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}
