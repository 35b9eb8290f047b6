package chunker

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

func TestNew_SentenceDefault(t *testing.T) {
	c, err := New(Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*Sentence); !ok {
		t.Errorf("expected *Sentence, got %T", c)
	}
}

func TestNew_Words(t *testing.T) {
	c, err := New(Config{Strategy: StrategyWords, ChunkSize: 10, Overlap: 2}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*SlidingWindow); !ok {
		t.Errorf("expected *SlidingWindow, got %T", c)
	}
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New(Config{Strategy: "paragraphs"}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := "First sentence. Second sentence! Third one? And a trailing fragment"

	for _, c := range []Chunker{NewSentence(), mustWindow(t, 5, 2)} {
		a := c.Chunk(text)
		b := c.Chunk(text)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%T: chunking is not deterministic: %v vs %v", c, a, b)
		}
	}
}

func mustWindow(t *testing.T, size, overlap int) *SlidingWindow {
	t.Helper()
	w, err := NewSlidingWindow(size, overlap, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSlidingWindow: %v", err)
	}
	return w
}
