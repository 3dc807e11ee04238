package llm

import (
	"context"
	"math"
	"testing"
)

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestHashingEmbedder(t *testing.T) {
	h := NewHashingEmbedder(0)
	ctx := context.Background()

	a, err := h.Embed(ctx, "1.5 sq mm copper cable")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(a) != DefaultHashingDims {
		t.Fatalf("expected %d dims, got %d", DefaultHashingDims, len(a))
	}
	if n := math.Sqrt(dot(a, a)); math.Abs(n-1) > 1e-9 {
		t.Fatalf("expected unit vector, got norm %v", n)
	}

	again, _ := h.Embed(ctx, "1.5 SQ MM copper cable")
	for i := range a {
		if a[i] != again[i] {
			t.Fatalf("embedding is not deterministic or not case-insensitive")
		}
	}

	near, _ := h.Embed(ctx, "1.5 sq mm cable")
	far, _ := h.Embed(ctx, "heavy duty transformer oil")
	if dot(a, near) <= dot(a, far) {
		t.Fatalf("expected overlapping text to be closer")
	}

	empty, _ := h.Embed(ctx, "   ")
	if dot(empty, empty) != 0 {
		t.Fatalf("expected zero vector for empty text")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("1.5 sq mm cable. With 20-amps, XLPE...")
	want := []string{"1.5", "sq", "mm", "cable", "with", "20", "amps", "xlpe"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
