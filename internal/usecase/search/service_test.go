package search

import (
	"context"
	"errors"
	"testing"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// --- Mocks ---

type mockDocRepo struct {
	docs   []domain.Document
	total  int
	getErr error

	lastOwner  string
	lastOffset int
	lastLimit  int
}

func (m *mockDocRepo) Get(_ context.Context, id string) (domain.Document, error) {
	if m.getErr != nil {
		return domain.Document{}, m.getErr
	}
	for _, d := range m.docs {
		if d.ID() == id {
			return d, nil
		}
	}
	return domain.Document{}, domain.ErrNotFound
}

func (m *mockDocRepo) List(_ context.Context, ownerID string, offset, limit int) ([]domain.Document, int, error) {
	m.lastOwner, m.lastOffset, m.lastLimit = ownerID, offset, limit
	return m.docs, m.total, nil
}

type mockCounter struct {
	counts map[string]int
	err    error
}

func (m *mockCounter) Count(_ context.Context, docID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[docID], nil
}

// --- Tests ---

func TestListDocuments_WithChunkCounts(t *testing.T) {
	a := domain.NewDocument("a.txt", "/data/a.txt", "alpha", "tenant")
	b := domain.NewDocument("b.txt", "/data/b.txt", "beta", "tenant")
	repo := &mockDocRepo{docs: []domain.Document{a, b}, total: 2}
	counter := &mockCounter{counts: map[string]int{a.ID(): 4, b.ID(): 1}}
	svc := New(repo, counter)

	page, err := svc.ListDocuments(context.Background(), "tenant", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 || len(page.Documents) != 2 {
		t.Fatalf("page = %d docs total %d", len(page.Documents), page.Total)
	}
	if page.Documents[0].Chunks != 4 || page.Documents[1].Chunks != 1 {
		t.Errorf("chunk counts = %d/%d, want 4/1",
			page.Documents[0].Chunks, page.Documents[1].Chunks)
	}
	if page.Documents[0].Name != "a.txt" || page.Documents[0].Source != "/data/a.txt" {
		t.Errorf("summary = %q from %q", page.Documents[0].Name, page.Documents[0].Source)
	}
}

func TestListDocuments_DefaultsAndClamping(t *testing.T) {
	repo := &mockDocRepo{}
	svc := New(repo, &mockCounter{}).WithPagination(20, 100)

	if _, err := svc.ListDocuments(context.Background(), "tenant", -5, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastOffset != 0 || repo.lastLimit != 20 {
		t.Errorf("repo called with offset %d limit %d, want 0 and 20",
			repo.lastOffset, repo.lastLimit)
	}

	if _, err := svc.ListDocuments(context.Background(), "tenant", 0, 5000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 100 {
		t.Errorf("limit clamped to %d, want 100", repo.lastLimit)
	}
}

func TestListDocuments_CountError(t *testing.T) {
	doc := domain.NewDocument("a.txt", "/data/a.txt", "alpha", "tenant")
	repo := &mockDocRepo{docs: []domain.Document{doc}, total: 1}
	svc := New(repo, &mockCounter{err: errors.New("index unreachable")})

	if _, err := svc.ListDocuments(context.Background(), "tenant", 0, 10); err == nil {
		t.Fatal("expected count error to propagate")
	}
}

func TestGetDocument_ReturnsText(t *testing.T) {
	doc := domain.NewDocument("a.txt", "/data/a.txt", "full extracted text", "tenant")
	repo := &mockDocRepo{docs: []domain.Document{doc}}
	counter := &mockCounter{counts: map[string]int{doc.ID(): 3}}
	svc := New(repo, counter)

	summary, text, err := svc.GetDocument(context.Background(), doc.ID(), "tenant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "full extracted text" {
		t.Errorf("text = %q", text)
	}
	if summary.ID != doc.ID() || summary.Chunks != 3 {
		t.Errorf("summary = %q with %d chunks", summary.ID, summary.Chunks)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	svc := New(&mockDocRepo{}, &mockCounter{})

	_, _, err := svc.GetDocument(context.Background(), "doc_missing", "tenant")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDocument_ForeignOwnerReadsAsAbsent(t *testing.T) {
	doc := domain.NewDocument("a.txt", "/data/a.txt", "text", "tenant-b")
	svc := New(&mockDocRepo{docs: []domain.Document{doc}}, &mockCounter{})

	_, _, err := svc.GetDocument(context.Background(), doc.ID(), "tenant-a")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("another owner's document must read as absent, got %v", err)
	}
}

func TestGetDocument_EmptyOwner(t *testing.T) {
	svc := New(&mockDocRepo{}, &mockCounter{})

	_, _, err := svc.GetDocument(context.Background(), "doc_1", "")
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestListDocuments_EmptyOwner(t *testing.T) {
	svc := New(&mockDocRepo{}, &mockCounter{})

	_, err := svc.ListDocuments(context.Background(), "", 0, 10)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
