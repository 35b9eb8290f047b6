// Package feedback persists user feedback entries in the feedback collection.
package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/domain/filter"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

// store is the consumer interface for feedback (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	SearchFields(ctx context.Context, q *db.FieldQuery) (*db.SearchResult, error)
}

// Repo implements feedback storage over the feedback collection.
type Repo struct {
	store store
	ks    keyspace.Keyspace
}

// New creates a feedback repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, ks: ks}
}

// Save stores one feedback entry.
func (r *Repo) Save(ctx context.Context, rec domain.FeedbackRecord) error {
	key := r.ks.RecordKey(domain.CollectionFeedback, rec.ID())
	fields := map[string]string{
		domain.FieldKind:         rec.Kind(),
		domain.FieldText:         rec.Text(),
		domain.FieldRecipient:    rec.Recipient(),
		domain.FieldContactEmail: rec.ContactEmail(),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("save feedback %s: %w", rec.ID(), storeErr(err))
	}
	return nil
}

// List returns feedback entries, optionally restricted to one kind.
func (r *Repo) List(ctx context.Context, kind string, offset, limit int) ([]domain.FeedbackRecord, int, error) {
	if limit <= 0 {
		limit = 20
	}

	var filters filter.Expression
	if kind != "" {
		cond, err := filter.NewMatch(domain.FieldKind, kind)
		if err != nil {
			return nil, 0, err
		}
		filters, err = filter.NewExpression(cond)
		if err != nil {
			return nil, 0, err
		}
	}

	result, err := r.store.SearchFields(ctx, &db.FieldQuery{
		IndexName: r.ks.IndexName(domain.CollectionFeedback),
		Filters:   filters,
		Offset:    offset,
		Limit:     limit,
		ReturnFields: []string{
			domain.FieldKind, domain.FieldText, domain.FieldRecipient, domain.FieldContactEmail,
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", storeErr(err))
	}

	prefix := r.ks.RecordPrefix(domain.CollectionFeedback)
	records := make([]domain.FeedbackRecord, 0, len(result.Entries))
	for _, entry := range result.Entries {
		id := entry.Key
		if len(id) > len(prefix) && id[:len(prefix)] == prefix {
			id = id[len(prefix):]
		}
		records = append(records, domain.ReconstructFeedbackRecord(
			id,
			entry.Fields[domain.FieldKind],
			entry.Fields[domain.FieldText],
			entry.Fields[domain.FieldRecipient],
			entry.Fields[domain.FieldContactEmail],
		))
	}
	return records, result.Total, nil
}

// storeErr tags a storage failure as an index availability problem so callers
// can tell infrastructure outages from domain outcomes.
func storeErr(err error) error {
	return errors.Join(domain.ErrIndexUnavailable, err)
}
