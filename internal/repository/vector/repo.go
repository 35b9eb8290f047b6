// Package vector persists chunk embeddings in the vectors collection and runs
// the KNN similarity search that seeds retrieval.
package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/domain/filter"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

const deleteBatchSize = 512

// store is the consumer interface for vectors (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchKeys(ctx context.Context, index string, filters filter.Expression, limit int) ([]string, error)
	SearchCount(ctx context.Context, index string, filters filter.Expression) (int, error)
	DelMulti(ctx context.Context, keys []string) (int, error)
}

// Repo implements embedding storage and KNN search over the vectors collection.
type Repo struct {
	store store
	ks    keyspace.Keyspace
}

// New creates a vector repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, ks: ks}
}

// SaveMulti upserts embedding records in one pipelined round-trip.
func (r *Repo) SaveMulti(ctx context.Context, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(records))
	for i, rec := range records {
		items[i] = db.HashSetItem{
			Key:    r.ks.RecordKey(domain.CollectionVectors, rec.ID()),
			Fields: recordToHash(rec),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d embeddings: %w", len(records), storeErr(err))
	}
	return nil
}

// SearchKNN returns the k nearest chunks to the query vector, most similar
// first. Scores are cosine similarities clamped to [0,1]. An empty ownerID
// searches all owners; a non-empty docID restricts to one document.
func (r *Repo) SearchKNN(
	ctx context.Context, queryVector []float32, k int, ownerID, docID string,
) ([]domain.SearchHit, error) {
	filters, err := scopeFilter(ownerID, docID)
	if err != nil {
		return nil, err
	}

	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: r.ks.IndexName(domain.CollectionVectors),
		Filters:   filters,
		Vector:    queryVector,
		K:         k,
		ReturnFields: []string{
			domain.FieldDocID, domain.FieldChunkID, domain.FieldChunkIndex,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", storeErr(err))
	}

	hits := make([]domain.SearchHit, 0, len(result.Entries))
	for _, entry := range result.Entries {
		hits = append(hits, hitFromEntry(entry))
	}
	return hits, nil
}

// DeleteByDoc removes every embedding of a document and returns the number
// removed. Removing an unknown document yields zero and no error.
func (r *Repo) DeleteByDoc(ctx context.Context, docID string) (int, error) {
	filters, err := scopeFilter("", docID)
	if err != nil {
		return 0, err
	}

	index := r.ks.IndexName(domain.CollectionVectors)
	removed := 0
	for {
		keys, err := r.store.SearchKeys(ctx, index, filters, deleteBatchSize)
		if err != nil {
			return removed, fmt.Errorf("find embeddings of %s: %w", docID, storeErr(err))
		}
		if len(keys) == 0 {
			return removed, nil
		}
		n, err := r.store.DelMulti(ctx, keys)
		removed += n
		if err != nil {
			return removed, fmt.Errorf("delete embeddings of %s: %w", docID, storeErr(err))
		}
	}
}

// Count returns the number of embeddings stored for a document.
func (r *Repo) Count(ctx context.Context, docID string) (int, error) {
	filters, err := scopeFilter("", docID)
	if err != nil {
		return 0, err
	}
	n, err := r.store.SearchCount(ctx, r.ks.IndexName(domain.CollectionVectors), filters)
	if err != nil {
		return 0, fmt.Errorf("count embeddings of %s: %w", docID, storeErr(err))
	}
	return n, nil
}

// storeErr tags a storage failure as an index availability problem so callers
// can tell infrastructure outages from domain outcomes.
func storeErr(err error) error {
	return errors.Join(domain.ErrIndexUnavailable, err)
}

func scopeFilter(ownerID, docID string) (filter.Expression, error) {
	conds := make([]filter.Condition, 0, 2)

	if ownerID != "" {
		cond, err := filter.NewMatch(domain.FieldOwnerID, ownerID)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, cond)
	}
	if docID != "" {
		cond, err := filter.NewMatch(domain.FieldDocID, docID)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, cond)
	}

	return filter.NewExpression(conds...)
}
