package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize_UnitLength(t *testing.T) {
	v, err := Normalize([]float32{1, 2, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := math.Sqrt(Dot(v, v)); math.Abs(got-1) > 1e-6 {
		t.Errorf("norm = %g, want 1", got)
	}
	// Direction preserved: 1:2:2 ratio.
	if math.Abs(float64(v[1])-2*float64(v[0])) > 1e-6 {
		t.Error("normalization changed the vector direction")
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	if _, err := Normalize(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in[0] != 3 || in[1] != 4 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	if _, err := Normalize(nil); !errors.Is(err, ErrVectorDimMismatch) {
		t.Errorf("empty vector: expected ErrVectorDimMismatch, got %v", err)
	}
	if _, err := Normalize([]float32{0, 0}); !errors.Is(err, ErrVectorDimMismatch) {
		t.Errorf("zero vector: expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestDot_MismatchedLengths(t *testing.T) {
	if got := Dot([]float32{1, 2}, []float32{1}); got != 0 {
		t.Errorf("Dot with mismatched lengths = %g, want 0", got)
	}
}

func TestDot_Orthogonal(t *testing.T) {
	if got := Dot([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("Dot of orthogonal vectors = %g, want 0", got)
	}
}
