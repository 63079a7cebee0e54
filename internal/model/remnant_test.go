package model

import "testing"

func remnantPattern(t *testing.T, qty int) Pattern {
	t.Helper()
	p, ok := NewPattern([]Allocation{{Part: Part{ItemCode: "A", UnrolledLength: 200}, Quantity: qty}}, 1000, 0, "test")
	if !ok {
		t.Fatal("invalid pattern")
	}
	return p
}

func TestDetectRemnant(t *testing.T) {
	r, ok := DetectRemnant(remnantPattern(t, 3), 2, MinRemnantWidth)
	if !ok {
		t.Fatal("expected a remnant")
	}
	if r.PatternIndex != 2 || r.Offset != 600 || r.Length != 400 {
		t.Errorf("unexpected remnant %+v", r)
	}
}

func TestDetectRemnantTooShort(t *testing.T) {
	if _, ok := DetectRemnant(remnantPattern(t, 5), 0, MinRemnantWidth); ok {
		t.Error("expected no remnant for an exact fit")
	}
	if _, ok := DetectRemnant(remnantPattern(t, 4), 0, 250); ok {
		t.Error("expected no remnant below the minimum length")
	}
}

func TestDetectAllRemnants(t *testing.T) {
	patterns := []Pattern{remnantPattern(t, 4), remnantPattern(t, 1), remnantPattern(t, 5), remnantPattern(t, 3)}

	remnants := DetectAllRemnants(patterns, MinRemnantWidth)
	if len(remnants) != 3 {
		t.Fatalf("expected 3 remnants, got %d", len(remnants))
	}
	if remnants[0].PatternIndex != 1 || remnants[2].PatternIndex != 0 {
		t.Errorf("expected longest first, got %+v", remnants)
	}
	if TotalRemnantLength(remnants) != 800+400+200 {
		t.Errorf("unexpected total %f", TotalRemnantLength(remnants))
	}
}
