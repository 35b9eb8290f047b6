package embcache

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/db"
	"github.com/askdocs-io/askdocs/internal/domain"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
)

// --- Mocks ---

type mockStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type mockEmbedder struct {
	vectors    map[string][]float32
	embedCalls int
	batchCalls int
	err        error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.embedCalls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vectors[text], TotalTokens: 1}, nil
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectors[t]
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

func newCached(t *testing.T, in inner, s store) *CachedEmbedder {
	t.Helper()
	return New(in, s, keyspace.New("test:"), nil, zap.NewNop())
}

// --- Tests ---

func TestEmbed_MissThenHit(t *testing.T) {
	provider := &mockEmbedder{vectors: map[string][]float32{"hello": {1, 0, 0}}}
	cached := newCached(t, provider, newMockStore())

	first, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.embedCalls != 1 {
		t.Errorf("provider called %d times, want 1", provider.embedCalls)
	}
	if !reflect.DeepEqual(first.Embedding, second.Embedding) {
		t.Errorf("cached embedding differs: %v vs %v", first.Embedding, second.Embedding)
	}
}

func TestBatchEmbed_PartialHitsForwardOnlyMisses(t *testing.T) {
	provider := &mockEmbedder{vectors: map[string][]float32{
		"a": {1, 0}, "b": {0, 1}, "c": {1, 1},
	}}
	s := newMockStore()
	cached := newCached(t, provider, s)

	// Warm the cache for "b" only.
	if _, err := cached.Embed(context.Background(), "b"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	res, err := cached.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	if !reflect.DeepEqual(res.Embeddings, want) {
		t.Errorf("embeddings = %v, want %v (input order)", res.Embeddings, want)
	}
	if provider.batchCalls != 1 {
		t.Errorf("batch calls = %d, want 1", provider.batchCalls)
	}
	// Only "a" and "c" should have reached the provider batch.
	if res.TotalTokens != 2 {
		t.Errorf("total tokens = %d, want 2 (misses only)", res.TotalTokens)
	}
}

func TestBatchEmbed_AllCachedSkipsProvider(t *testing.T) {
	provider := &mockEmbedder{vectors: map[string][]float32{"a": {1, 0}}}
	cached := newCached(t, provider, newMockStore())

	if _, err := cached.Embed(context.Background(), "a"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	res, err := cached.BatchEmbed(context.Background(), []string{"a", "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.batchCalls != 0 {
		t.Errorf("batch calls = %d, want 0", provider.batchCalls)
	}
	if len(res.Embeddings) != 2 {
		t.Errorf("got %d embeddings, want 2", len(res.Embeddings))
	}
}

func TestEmbed_CacheReadFailureFallsThrough(t *testing.T) {
	provider := &mockEmbedder{vectors: map[string][]float32{"x": {2, 0}}}
	s := newMockStore()
	s.getErr = errors.New("connection reset")
	cached := newCached(t, provider, s)

	res, err := cached.Embed(context.Background(), "x")
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if !reflect.DeepEqual(res.Embedding, []float32{2, 0}) {
		t.Errorf("embedding = %v", res.Embedding)
	}
}

func TestEmbed_CacheWriteFailureIsIgnored(t *testing.T) {
	provider := &mockEmbedder{vectors: map[string][]float32{"x": {2, 0}}}
	s := newMockStore()
	s.setErr = errors.New("read-only replica")
	cached := newCached(t, provider, s)

	if _, err := cached.Embed(context.Background(), "x"); err != nil {
		t.Fatalf("cache write failure must not fail the request: %v", err)
	}
}

func TestBatchEmbed_ProviderCountMismatch(t *testing.T) {
	cached := newCached(t, &shortBatchEmbedder{}, newMockStore())

	_, err := cached.BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingFailed) {
		t.Errorf("expected ErrEmbeddingFailed on count mismatch, got %v", err)
	}
}

type shortBatchEmbedder struct{}

func (shortBatchEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, nil
}

func (shortBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts)-1)}, nil
}
