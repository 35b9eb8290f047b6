package document

import (
	"context"
	"errors"
	"testing"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/domain/filter"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

// --- Mocks ---

type mockStore struct {
	hashes map[string]map[string]string
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.hashes[key] = fields
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hashes[key], nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.hashes, key)
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *mockStore) SearchFields(_ context.Context, _ *db.FieldQuery) (*db.SearchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(_ context.Context, _ string, _ filter.Expression) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.hashes), nil
}

func newTestRepo(s *mockStore) *Repo {
	return New(s, keyspace.New("askdocs:"))
}

// --- Tests ---

func TestSaveAndGet_RoundTrip(t *testing.T) {
	s := newMockStore()
	repo := newTestRepo(s)
	doc := domain.NewDocument("guide.pdf", "/data/guide.pdf", "full text", "tenant-a")

	if err := repo.Save(context.Background(), doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(context.Background(), doc.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "guide.pdf" || got.Text() != "full text" || got.OwnerID() != "tenant-a" {
		t.Errorf("got %q owned by %q", got.Name(), got.OwnerID())
	}
}

func TestGet_Missing(t *testing.T) {
	repo := newTestRepo(newMockStore())

	_, err := repo.Get(context.Background(), "doc_missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrIndexUnavailable) {
		t.Error("a missing document is a domain outcome, not an index outage")
	}
}

func TestGet_StoreFailureIsIndexUnavailable(t *testing.T) {
	s := newMockStore()
	s.err = &db.Error{Op: db.OpHGetAll, Err: errors.New("connection refused")}
	repo := newTestRepo(s)

	_, err := repo.Get(context.Background(), "doc_x")
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("a storage failure must not read as not-found")
	}
}

func TestSave_StoreFailureIsIndexUnavailable(t *testing.T) {
	s := newMockStore()
	s.err = &db.Error{Op: db.OpHSet, Err: errors.New("connection refused")}
	repo := newTestRepo(s)

	err := repo.Save(context.Background(), domain.NewDocument("a.txt", "/a.txt", "text", ""))
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestDelete_StoreFailureIsIndexUnavailable(t *testing.T) {
	s := newMockStore()
	s.err = &db.Error{Op: db.OpDel, Err: errors.New("connection refused")}
	repo := newTestRepo(s)

	if err := repo.Delete(context.Background(), "doc_1"); !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestList_StoreFailureIsIndexUnavailable(t *testing.T) {
	s := newMockStore()
	s.err = &db.Error{Op: db.OpSearch, Err: errors.New("connection refused")}
	repo := newTestRepo(s)

	if _, _, err := repo.List(context.Background(), "tenant-a", 0, 10); !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}
