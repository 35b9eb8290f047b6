// Package chunk persists text chunks in the chunks collection and serves the
// ordered page reads the context retriever expands over.
package chunk

import (
	"context"
	"errors"
	"fmt"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/domain/filter"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

// deleteBatchSize bounds one SearchKeys+DEL round-trip during removal.
const deleteBatchSize = 512

// store is the consumer interface for chunks (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	SearchFields(ctx context.Context, q *db.FieldQuery) (*db.SearchResult, error)
	SearchKeys(ctx context.Context, index string, filters filter.Expression, limit int) ([]string, error)
	SearchCount(ctx context.Context, index string, filters filter.Expression) (int, error)
	DelMulti(ctx context.Context, keys []string) (int, error)
}

// Repo implements chunk storage over the chunks collection.
type Repo struct {
	store store
	ks    keyspace.Keyspace
}

// New creates a chunk repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, ks: ks}
}

// SaveMulti upserts chunks in one pipelined round-trip.
func (r *Repo) SaveMulti(ctx context.Context, chunks []domain.TextChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(chunks))
	for i, c := range chunks {
		items[i] = db.HashSetItem{
			Key:    r.ks.RecordKey(domain.CollectionChunks, c.ID()),
			Fields: chunkToHash(c),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save %d chunks: %w", len(chunks), storeErr(err))
	}
	return nil
}

// GetPage returns up to count chunks of one document starting at startIndex,
// ordered by chunk index ascending.
func (r *Repo) GetPage(
	ctx context.Context, docID, ownerID string, startIndex, count int,
) ([]domain.TextChunk, error) {
	if count <= 0 {
		return nil, nil
	}
	if startIndex < 0 {
		startIndex = 0
	}

	filters, err := docFilter(docID, ownerID, &indexRange{min: startIndex, max: startIndex + count - 1})
	if err != nil {
		return nil, err
	}

	result, err := r.store.SearchFields(ctx, &db.FieldQuery{
		IndexName: r.ks.IndexName(domain.CollectionChunks),
		Filters:   filters,
		SortBy:    domain.FieldIndex,
		Ascending: true,
		Limit:     count,
		ReturnFields: []string{
			domain.FieldDocID, domain.FieldIndex, domain.FieldText, domain.FieldOwnerID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get chunk page %s[%d..): %w", docID, startIndex, storeErr(err))
	}

	chunks := make([]domain.TextChunk, 0, len(result.Entries))
	for _, entry := range result.Entries {
		chunks = append(chunks, chunkFromHash(r.chunkID(entry.Key), entry.Fields))
	}
	return chunks, nil
}

// DeleteByDoc removes every chunk of a document and returns the number
// removed. Removing an unknown document yields zero and no error.
func (r *Repo) DeleteByDoc(ctx context.Context, docID string) (int, error) {
	filters, err := docFilter(docID, "", nil)
	if err != nil {
		return 0, err
	}

	index := r.ks.IndexName(domain.CollectionChunks)
	removed := 0
	for {
		keys, err := r.store.SearchKeys(ctx, index, filters, deleteBatchSize)
		if err != nil {
			return removed, fmt.Errorf("find chunks of %s: %w", docID, storeErr(err))
		}
		if len(keys) == 0 {
			return removed, nil
		}
		n, err := r.store.DelMulti(ctx, keys)
		removed += n
		if err != nil {
			return removed, fmt.Errorf("delete chunks of %s: %w", docID, storeErr(err))
		}
	}
}

// Count returns the number of chunks stored for a document.
func (r *Repo) Count(ctx context.Context, docID string) (int, error) {
	filters, err := docFilter(docID, "", nil)
	if err != nil {
		return 0, err
	}
	n, err := r.store.SearchCount(ctx, r.ks.IndexName(domain.CollectionChunks), filters)
	if err != nil {
		return 0, fmt.Errorf("count chunks of %s: %w", docID, storeErr(err))
	}
	return n, nil
}

// storeErr tags a storage failure as an index availability problem so callers
// can tell infrastructure outages from domain outcomes.
func storeErr(err error) error {
	return errors.Join(domain.ErrIndexUnavailable, err)
}

func (r *Repo) chunkID(key string) string {
	prefix := r.ks.RecordPrefix(domain.CollectionChunks)
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}

type indexRange struct {
	min int
	max int
}

func docFilter(docID, ownerID string, idx *indexRange) (filter.Expression, error) {
	conds := make([]filter.Condition, 0, 3)

	docCond, err := filter.NewMatch(domain.FieldDocID, docID)
	if err != nil {
		return filter.Expression{}, err
	}
	conds = append(conds, docCond)

	if ownerID != "" {
		ownerCond, err := filter.NewMatch(domain.FieldOwnerID, ownerID)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, ownerCond)
	}

	if idx != nil {
		rng, err := filter.NewRangeBounds(float64(idx.min), float64(idx.max))
		if err != nil {
			return filter.Expression{}, err
		}
		rangeCond, err := filter.NewRange(domain.FieldIndex, rng)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, rangeCond)
	}

	return filter.NewExpression(conds...)
}
