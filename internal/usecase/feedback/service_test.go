package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	saved   []domain.FeedbackRecord
	listed  []domain.FeedbackRecord
	total   int
	saveErr error
	listErr error

	lastKind   string
	lastOffset int
	lastLimit  int
}

func (m *mockRepo) Save(_ context.Context, rec domain.FeedbackRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockRepo) List(_ context.Context, kind string, offset, limit int) ([]domain.FeedbackRecord, int, error) {
	m.lastKind, m.lastOffset, m.lastLimit = kind, offset, limit
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listed, m.total, nil
}

// --- Tests ---

func TestSubmit_StoresRecord(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	id, err := svc.Submit(context.Background(), KindBug, "query panics on empty owner", "team", "a@b.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(id, domain.FeedbackIDPrefix) {
		t.Errorf("id %q missing prefix %q", id, domain.FeedbackIDPrefix)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.Kind() != KindBug || rec.Text() != "query panics on empty owner" {
		t.Errorf("stored record = %q/%q", rec.Kind(), rec.Text())
	}
	if rec.ContactEmail() != "a@b.io" {
		t.Errorf("contact email = %q", rec.ContactEmail())
	}
}

func TestSubmit_FreshIDPerSubmission(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	a, err := svc.Submit(context.Background(), KindAnswer, "same text", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Submit(context.Background(), KindAnswer, "same text", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("identical submissions must not share an id")
	}
}

func TestSubmit_UnknownKind(t *testing.T) {
	svc := New(&mockRepo{})

	_, err := svc.Submit(context.Background(), "rant", "text", "", "")
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSubmit_EmptyText(t *testing.T) {
	svc := New(&mockRepo{})

	_, err := svc.Submit(context.Background(), KindFeature, "", "", "")
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSubmit_RepoError(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("write timeout")}
	svc := New(repo)

	if _, err := svc.Submit(context.Background(), KindQuestion, "how do I?", "", ""); err == nil {
		t.Fatal("expected save error to propagate")
	}
}

func TestList_ForwardsFilterAndPaging(t *testing.T) {
	repo := &mockRepo{
		listed: []domain.FeedbackRecord{
			domain.NewFeedbackRecord("1", KindBug, "first", "", ""),
		},
		total: 7,
	}
	svc := New(repo)

	recs, total, err := svc.List(context.Background(), KindBug, 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || total != 7 {
		t.Errorf("got %d records total %d, want 1 and 7", len(recs), total)
	}
	if repo.lastKind != KindBug || repo.lastOffset != 3 || repo.lastLimit != 10 {
		t.Errorf("repo called with %q/%d/%d", repo.lastKind, repo.lastOffset, repo.lastLimit)
	}
}

func TestList_UnknownKind(t *testing.T) {
	svc := New(&mockRepo{})

	_, _, err := svc.List(context.Background(), "rant", 0, 10)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestList_EmptyKindListsAll(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	if _, _, err := svc.List(context.Background(), "", 0, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastKind != "" {
		t.Errorf("kind filter = %q, want empty", repo.lastKind)
	}
}
