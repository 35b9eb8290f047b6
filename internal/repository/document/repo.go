// Package document persists ingested documents in the docs collection.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/domain/filter"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchFields(ctx context.Context, q *db.FieldQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, filters filter.Expression) (int, error)
}

// Repo implements document storage over the docs collection.
type Repo struct {
	store store
	ks    keyspace.Keyspace
}

// New creates a document repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, ks: ks}
}

// Save upserts a document. Re-ingesting the same source overwrites in place
// because the document id is content-derived.
func (r *Repo) Save(ctx context.Context, doc domain.Document) error {
	key := r.ks.RecordKey(domain.CollectionDocs, doc.ID())
	if err := r.store.HSet(ctx, key, documentToHash(doc)); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID(), storeErr(err))
	}
	return nil
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	key := r.ks.RecordKey(domain.CollectionDocs, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document %s: %w", id, storeErr(err))
	}
	if len(m) == 0 {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return documentFromHash(id, m), nil
}

// Exists reports whether a document is present.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.ks.RecordKey(domain.CollectionDocs, id))
	if err != nil {
		return false, fmt.Errorf("document %s: %w", id, storeErr(err))
	}
	return ok, nil
}

// Delete removes a document by id. Deleting an absent document is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.ks.RecordKey(domain.CollectionDocs, id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete document %s: %w", id, storeErr(err))
	}
	return nil
}

// List returns the owner's documents with offset pagination, text omitted.
func (r *Repo) List(ctx context.Context, ownerID string, offset, limit int) ([]domain.Document, int, error) {
	if limit <= 0 {
		limit = 20
	}

	filters, err := ownerFilter(ownerID)
	if err != nil {
		return nil, 0, err
	}

	result, err := r.store.SearchFields(ctx, &db.FieldQuery{
		IndexName:    r.ks.IndexName(domain.CollectionDocs),
		Filters:      filters,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: []string{domain.FieldName, domain.FieldSource, domain.FieldOwnerID},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", storeErr(err))
	}

	docs := make([]domain.Document, 0, len(result.Entries))
	for _, entry := range result.Entries {
		id := r.docID(entry.Key)
		docs = append(docs, documentFromHash(id, entry.Fields))
	}
	return docs, result.Total, nil
}

// Count returns the number of documents owned by ownerID.
func (r *Repo) Count(ctx context.Context, ownerID string) (int, error) {
	filters, err := ownerFilter(ownerID)
	if err != nil {
		return 0, err
	}
	n, err := r.store.SearchCount(ctx, r.ks.IndexName(domain.CollectionDocs), filters)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", storeErr(err))
	}
	return n, nil
}

func (r *Repo) docID(key string) string {
	prefix := r.ks.RecordPrefix(domain.CollectionDocs)
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}

// storeErr tags a storage failure as an index availability problem so callers
// can tell infrastructure outages from domain outcomes.
func storeErr(err error) error {
	return errors.Join(domain.ErrIndexUnavailable, err)
}

func ownerFilter(ownerID string) (filter.Expression, error) {
	if ownerID == "" {
		return filter.Expression{}, nil
	}
	cond, err := filter.NewMatch(domain.FieldOwnerID, ownerID)
	if err != nil {
		return filter.Expression{}, errors.Join(domain.ErrInvalidConfig, err)
	}
	return filter.NewExpression(cond)
}
