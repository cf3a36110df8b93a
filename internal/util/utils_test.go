package util

import (
	"math"
	"testing"
)

func TestSmoothStepRising(t *testing.T) {
	if v := SmoothStep(0, 1, -1); v != 0 {
		t.Fatalf("below edge0 = %v", v)
	}
	if v := SmoothStep(0, 1, 2); v != 1 {
		t.Fatalf("above edge1 = %v", v)
	}
	if v := SmoothStep(0, 1, 0.5); v != 0.5 {
		t.Fatalf("midpoint = %v", v)
	}
}

func TestSmoothStepReversedEdges(t *testing.T) {
	// smoothstep(0.5, 0, d) falls from 1 at d=0 to 0 at d>=0.5.
	if v := SmoothStep(0.5, 0, 0); v != 1 {
		t.Fatalf("at centre = %v, expected 1", v)
	}
	if v := SmoothStep(0.5, 0, 0.5); v != 0 {
		t.Fatalf("at radius = %v, expected 0", v)
	}
	if v := SmoothStep(0.5, 0, 3); v != 0 {
		t.Fatalf("outside radius = %v, expected 0", v)
	}
	if v := SmoothStep(0.5, 0, 0.25); v != 0.5 {
		t.Fatalf("half radius = %v, expected 0.5", v)
	}
}

func TestSmoothStepEqualEdges(t *testing.T) {
	if v := SmoothStep(1, 1, 0.5); v != 0 {
		t.Fatalf("below = %v", v)
	}
	if v := SmoothStep(1, 1, 1); v != 1 {
		t.Fatalf("at = %v", v)
	}
}

func TestFract(t *testing.T) {
	cases := map[float64]float64{
		1.25:  0.25,
		-0.25: 0.75,
		3:     0,
	}
	for in, want := range cases {
		if got := Fract(in); math.Abs(got-want) > 1e-15 {
			t.Errorf("Fract(%v) = %v, expected %v", in, got, want)
		}
	}
	if got := Fract(-1e-20); got < 0 || got >= 1 {
		t.Fatalf("Fract(-1e-20) = %v, outside [0,1)", got)
	}
}

func TestSplitRowsCoversRange(t *testing.T) {
	for _, parts := range []int{1, 3, 7, 100} {
		covered := make([]int, 50)
		SplitRows(len(covered), parts, func(start, end int) {
			for i := start; i < end; i++ {
				covered[i]++
			}
		})
		for i, c := range covered {
			if c != 1 {
				t.Fatalf("parts=%d: row %d visited %d times", parts, i, c)
			}
		}
	}
}

func TestSplitRowsEmpty(t *testing.T) {
	called := false
	SplitRows(0, 4, func(int, int) { called = true })
	if called {
		t.Fatalf("callback invoked for empty range")
	}
}
