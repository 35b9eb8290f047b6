package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

// --- Mocks ---

// mockChunkSource serves pages out of an in-memory document map.
type mockChunkSource struct {
	docs  map[string][]string // docID -> chunk texts by index
	calls int
	err   error
}

func (m *mockChunkSource) GetPage(
	_ context.Context, docID, ownerID string, startIndex, count int,
) ([]domain.TextChunk, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	texts := m.docs[docID]
	var page []domain.TextChunk
	for i := startIndex; i < startIndex+count && i < len(texts); i++ {
		if i < 0 {
			continue
		}
		page = append(page, domain.NewTextChunk(docID, i, texts[i], ownerID))
	}
	return page, nil
}

// fixedCounter charges one token per word.
type fixedCounter struct{}

func (fixedCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

func hit(docID string, index int) domain.SearchHit {
	return domain.SearchHit{DocID: docID, ChunkIndex: index, Score: 0.9}
}

func newTestRetriever(src *mockChunkSource) *Retriever {
	return New(src, fixedCounter{}, zap.NewNop())
}

// --- Assemble tests ---

func TestAssemble_ExpandsAroundHit(t *testing.T) {
	// One hit in the middle of a five-chunk document: the neighborhood on
	// both sides joins the context in document order.
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"c0", "c1", "c2", "c3", "c4"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(1)

	got, err := r.Assemble(context.Background(), []domain.SearchHit{hit("doc_a", 1)}, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Text != "c0 c1 c2" {
		t.Errorf("Text = %q, want %q", got.Text, "c0 c1 c2")
	}
	if got.Tokens != 3 {
		t.Errorf("Tokens = %d, want 3", got.Tokens)
	}
	if len(got.Chunks) != 3 || got.Chunks[0].Index() != 0 || got.Chunks[2].Index() != 2 {
		t.Errorf("Chunks not in ascending index order: %+v", got.Chunks)
	}
}

func TestAssemble_BudgetStopsExpansionEntirely(t *testing.T) {
	// Budget of 2 tokens: the hit and one neighbor fit; adding the second
	// neighbor would overflow, so it is rolled back and expansion stops.
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"c0", "c1", "c2", "c3", "c4"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(1)

	got, err := r.Assemble(context.Background(), []domain.SearchHit{hit("doc_a", 1)}, "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Tokens > 2 {
		t.Errorf("Tokens = %d exceeds budget 2", got.Tokens)
	}
	if len(got.Chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d (%q)", len(got.Chunks), got.Text)
	}
	// The text is a complete concatenation, never a truncated one.
	for _, c := range got.Chunks {
		if !strings.Contains(got.Text, c.Text()) {
			t.Errorf("chunk %q missing from text %q", c.Text(), got.Text)
		}
	}
}

func TestAssemble_MultipleHitsGrowTogether(t *testing.T) {
	// Two hits in different documents: expansion alternates between their
	// regions instead of exhausting the budget on the first hit's document.
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"a0", "a1", "a2", "a3", "a4"},
		"doc_b": {"b0", "b1", "b2", "b3", "b4"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(2)

	hits := []domain.SearchHit{hit("doc_a", 2), hit("doc_b", 2)}
	got, err := r.Assemble(context.Background(), hits, "", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got.Text, "a2") || !strings.Contains(got.Text, "b2") {
		t.Errorf("both hit chunks should be included before neighbors, got %q", got.Text)
	}
}

func TestAssemble_SingleOversizedHit(t *testing.T) {
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"one two three four five"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(1)

	got, err := r.Assemble(context.Background(), []domain.SearchHit{hit("doc_a", 0)}, "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Text != "" || got.Tokens != 0 || len(got.Chunks) != 0 {
		t.Errorf("oversized single hit should produce an empty result, got %+v", got)
	}
}

func TestAssemble_NoHits(t *testing.T) {
	r := newTestRetriever(&mockChunkSource{})

	got, err := r.Assemble(context.Background(), nil, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "" || len(got.Chunks) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestAssemble_DuplicateHitsIncludedOnce(t *testing.T) {
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"c0", "c1", "c2"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(0)

	hits := []domain.SearchHit{hit("doc_a", 1), hit("doc_a", 1)}
	got, err := r.Assemble(context.Background(), hits, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Text != "c1" {
		t.Errorf("Text = %q, want single inclusion %q", got.Text, "c1")
	}
}

func TestAssemble_AdjacentHitsShareOnePage(t *testing.T) {
	// Both hits sit in one document neighborhood; prefetch reads one page.
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"c0", "c1", "c2", "c3", "c4"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(2)

	hits := []domain.SearchHit{hit("doc_a", 1), hit("doc_a", 2)}
	if _, err := r.Assemble(context.Background(), hits, "", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("expected 1 page read, got %d", src.calls)
	}
}

func TestAssemble_ScoreThreshold(t *testing.T) {
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"c0", "c1", "c2"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(0).WithScoreThreshold(0.5)

	hits := []domain.SearchHit{
		{DocID: "doc_a", ChunkIndex: 0, Score: 0.9},
		{DocID: "doc_a", ChunkIndex: 2, Score: 0.1},
	}
	got, err := r.Assemble(context.Background(), hits, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Text != "c0" {
		t.Errorf("Text = %q, low-scoring hit should be dropped", got.Text)
	}
}

func TestAssemble_CandidateOutsidePageSkipped(t *testing.T) {
	// Second hit is far from the page centered on the document's lowest hit
	// index; it cannot be served from the cache and is skipped.
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(1)

	hits := []domain.SearchHit{hit("doc_a", 1), hit("doc_a", 8)}
	got, err := r.Assemble(context.Background(), hits, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(got.Text, "c8") {
		t.Errorf("chunk outside the prefetched page leaked into the context: %q", got.Text)
	}
	if !strings.Contains(got.Text, "c1") {
		t.Errorf("primary hit missing from context: %q", got.Text)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	src := &mockChunkSource{docs: map[string][]string{
		"doc_a": {"a0", "a1", "a2", "a3"},
		"doc_b": {"b0", "b1", "b2", "b3"},
	}}
	r := newTestRetriever(src).WithWindowHalfWidth(1)
	hits := []domain.SearchHit{hit("doc_b", 2), hit("doc_a", 1)}

	first, err := r.Assemble(context.Background(), hits, "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := r.Assemble(context.Background(), hits, "", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Text != first.Text {
			t.Fatalf("run %d diverged: %q vs %q", i, again.Text, first.Text)
		}
	}
}

func TestAssemble_PageReadError(t *testing.T) {
	src := &mockChunkSource{err: errors.New("connection refused")}
	r := newTestRetriever(src)

	_, err := r.Assemble(context.Background(), []domain.SearchHit{hit("doc_a", 0)}, "", 100)
	if err == nil {
		t.Fatal("expected error")
	}
}
