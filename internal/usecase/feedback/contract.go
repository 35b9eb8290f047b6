package feedback

import (
	"context"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// Repository persists feedback entries.
type Repository interface {
	Save(ctx context.Context, rec domain.FeedbackRecord) error
	List(ctx context.Context, kind string, offset, limit int) ([]domain.FeedbackRecord, int, error)
}
