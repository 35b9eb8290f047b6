package redis

import (
	"testing"

	"github.com/askdocs-io/askdocs/internal/domain/filter"
)

func mustMatch(t *testing.T, key, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewMatch(key, value)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return c
}

func mustRange(t *testing.T, key string, minVal, maxVal float64) filter.Condition {
	t.Helper()
	r, err := filter.NewRangeBounds(minVal, maxVal)
	if err != nil {
		t.Fatalf("NewRangeBounds: %v", err)
	}
	c, err := filter.NewRange(key, r)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	return c
}

func TestBuildFilter_Empty(t *testing.T) {
	if got := buildFilter(filter.Expression{}); got != "" {
		t.Errorf("empty expression compiled to %q", got)
	}
}

func TestBuildFilter_TagMatch(t *testing.T) {
	expr := filter.MustExpression(mustMatch(t, "doc_id", "doc_ab12"))
	if got, want := buildFilter(expr), "@doc_id:{doc_ab12}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_TagEscaping(t *testing.T) {
	expr := filter.MustExpression(mustMatch(t, "owner_id", "acme-corp"))
	if got, want := buildFilter(expr), `@owner_id:{acme\-corp}`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	expr = filter.MustExpression(mustMatch(t, "owner_id", "a b"))
	if got, want := buildFilter(expr), `@owner_id:{a\ b}`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_NumericRange(t *testing.T) {
	expr := filter.MustExpression(mustRange(t, "index", 3, 7))
	if got, want := buildFilter(expr), "@index:[3 7]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildFilter_Conjunction(t *testing.T) {
	expr := filter.MustExpression(
		mustMatch(t, "doc_id", "doc_1"),
		mustMatch(t, "owner_id", "tenant"),
		mustRange(t, "index", 0, 4),
	)
	want := "@doc_id:{doc_1} @owner_id:{tenant} @index:[0 4]"
	if got := buildFilter(expr); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
