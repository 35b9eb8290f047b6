package chunker

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/askdocs-io/askdocs/internal/domain"
)

func words(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(out, " ")
}

func TestSlidingWindow_InvalidParams(t *testing.T) {
	if _, err := NewSlidingWindow(0, 0, zap.NewNop()); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("chunk size 0: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewSlidingWindow(10, -1, zap.NewNop()); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("negative overlap: expected ErrInvalidConfig, got %v", err)
	}
}

func TestSlidingWindow_Offsets(t *testing.T) {
	// 25 words, windows of 10 with overlap 3 start at 0, 7, 14, 21.
	w := mustWindow(t, 10, 3)
	got := w.Chunk(words(25))

	if len(got) != 4 {
		t.Fatalf("expected 4 windows, got %d: %v", len(got), got)
	}
	for i, startWord := range []string{"w0", "w7", "w14", "w21"} {
		if !strings.HasPrefix(got[i], startWord+" ") && !strings.HasPrefix(got[i], startWord) {
			t.Errorf("window %d starts with %q, want %q", i, strings.Fields(got[i])[0], startWord)
		}
	}
	if last := got[3]; last != "w21 w22 w23 w24" {
		t.Errorf("last window = %q, want tail of 4 words", last)
	}
}

func TestSlidingWindow_FullCoverage(t *testing.T) {
	w := mustWindow(t, 4, 1)
	got := w.Chunk(words(11))

	seen := make(map[string]bool)
	for _, chunk := range got {
		for _, word := range strings.Fields(chunk) {
			seen[word] = true
		}
	}
	for i := 0; i < 11; i++ {
		if !seen[fmt.Sprintf("w%d", i)] {
			t.Errorf("word w%d missing from all windows", i)
		}
	}
}

func TestSlidingWindow_OverlapClampEquivalence(t *testing.T) {
	// Overlap >= chunk size clamps to chunk size; both configs behave the same.
	a := mustWindow(t, 10, 15)
	b := mustWindow(t, 10, 10)
	text := words(30)

	if got, want := a.Chunk(text), b.Chunk(text); !reflect.DeepEqual(got, want) {
		t.Errorf("clamped config diverged: %d vs %d windows", len(got), len(want))
	}
}

func TestSlidingWindow_ZeroOverlap(t *testing.T) {
	w := mustWindow(t, 5, 0)
	got := w.Chunk(words(12))
	want := []string{
		"w0 w1 w2 w3 w4",
		"w5 w6 w7 w8 w9",
		"w10 w11",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSlidingWindow_EmptyInput(t *testing.T) {
	w := mustWindow(t, 5, 1)
	if got := w.Chunk("  \n "); got != nil {
		t.Errorf("expected nil for whitespace input, got %v", got)
	}
}
