// Package feedback collects user feedback on answers and documents.
package feedback

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// Kinds of feedback accepted by Submit.
const (
	KindBug      = "bug"
	KindAnswer   = "answer"
	KindFeature  = "feature"
	KindQuestion = "question"
)

var validKinds = map[string]bool{
	KindBug:      true,
	KindAnswer:   true,
	KindFeature:  true,
	KindQuestion: true,
}

// Service handles feedback submission and listing.
type Service struct {
	repo Repository
}

// New creates a feedback service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit stores one feedback entry and returns its id. Feedback has no
// natural content identity, so each submission gets a fresh random id.
func (s *Service) Submit(ctx context.Context, kind, text, recipient, contactEmail string) (string, error) {
	if !validKinds[kind] {
		return "", fmt.Errorf("unknown feedback kind %q: %w", kind, domain.ErrInvalidConfig)
	}
	if text == "" {
		return "", fmt.Errorf("feedback text is required: %w", domain.ErrInvalidConfig)
	}

	rec := domain.NewFeedbackRecord(uuid.NewString(), kind, text, recipient, contactEmail)
	if err := s.repo.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("save feedback: %w", err)
	}
	return rec.ID(), nil
}

// List returns stored feedback, optionally filtered by kind.
func (s *Service) List(ctx context.Context, kind string, offset, limit int) ([]domain.FeedbackRecord, int, error) {
	if kind != "" && !validKinds[kind] {
		return nil, 0, fmt.Errorf("unknown feedback kind %q: %w", kind, domain.ErrInvalidConfig)
	}
	return s.repo.List(ctx, kind, offset, limit)
}
