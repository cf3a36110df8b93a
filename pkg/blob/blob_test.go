package blob

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tolerance = 1e-12

var farAway = mgl64.Vec2{100, 100}

func TestBandBoundary(t *testing.T) {
	p := DefaultParams()

	if c := p.Band(0.25); c != (mgl64.Vec3{}) {
		t.Fatalf("Band(0.25) = %v, expected black", c)
	}
	if c := p.Band(-0.25); c != (mgl64.Vec3{}) {
		t.Fatalf("Band(-0.25) = %v, expected black", c)
	}

	c := p.Band(0.26)
	if c[0] != 0 || c[1] <= 0 || c[1] != c[2] {
		t.Fatalf("Band(0.26) = %v, expected small cyan", c)
	}
	if math.Abs(c[1]-0.015) > tolerance {
		t.Fatalf("Band(0.26) intensity = %v, expected 0.015", c[1])
	}

	m := p.Band(-0.26)
	if m[1] != 0 || m[0] <= 0 || m[0] != m[2] {
		t.Fatalf("Band(-0.26) = %v, expected small magenta", m)
	}
}

func TestBandNeverNegative(t *testing.T) {
	p := DefaultParams()
	for v := -2.0; v <= 2.0; v += 0.001 {
		c := p.Band(v)
		for i := 0; i < 3; i++ {
			if c[i] < 0 {
				t.Fatalf("Band(%v) channel %d = %v", v, i, c[i])
			}
		}
	}
}

func TestRepelNeverCrossesZero(t *testing.T) {
	cases := []struct {
		v, influence, want float64
	}{
		{-0.5, 0.3, -0.2},
		{-0.1, 0.3, 0},
		{0.5, 0.3, 0.2},
		{0.1, 0.3, 0},
		{0, 0.3, 0},
		{0.4, 0, 0.4},
	}
	for _, c := range cases {
		if got := Repel(c.v, c.influence); math.Abs(got-c.want) > tolerance {
			t.Errorf("Repel(%v, %v) = %v, expected %v", c.v, c.influence, got, c.want)
		}
	}
}

func TestInfluenceFalloff(t *testing.T) {
	p := DefaultParams()
	origin := mgl64.Vec2{}
	if got := p.Influence(origin, origin); math.Abs(got-0.3) > tolerance {
		t.Fatalf("influence at pointer = %v, expected 0.3", got)
	}
	if got := p.Influence(mgl64.Vec2{0.5, 0}, origin); got != 0 {
		t.Fatalf("influence at radius = %v, expected 0", got)
	}
	if got := p.Influence(mgl64.Vec2{0.25, 0}, origin); math.Abs(got-0.15) > tolerance {
		t.Fatalf("influence at half radius = %v, expected 0.15", got)
	}
}

func TestValueGolden(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		uv      mgl64.Vec2
		elapsed float64
		want    float64
	}{
		{mgl64.Vec2{0.5, 0.5}, 0, -0.48584300528351426},
		{mgl64.Vec2{0.75, 0.75}, 0, 0.5177228101267414},
		{mgl64.Vec2{0.5, 0.5}, 12345, 0.18100722407207606},
	}
	for _, c := range cases {
		if got := p.Value(c.uv, c.elapsed); math.Abs(got-c.want) > tolerance {
			t.Errorf("Value(%v, %v) = %.17g, expected %.17g", c.uv, c.elapsed, got, c.want)
		}
	}
}

func TestShadeEndToEnd(t *testing.T) {
	p := DefaultParams()
	uv := mgl64.Vec2{0.5, 0.5}
	pos := mgl64.Vec2{0, 0}

	c := p.Shade(uv, pos, 0, farAway)
	want := (0.48584300528351426 - 0.25) * 1.5
	if c[1] != 0 || math.Abs(c[0]-want) > tolerance || math.Abs(c[2]-want) > tolerance || c[3] != 1 {
		t.Fatalf("Shade = %v, expected magenta %v with alpha 1", c, want)
	}

	// Pointer on top of the fragment pulls -0.486 up to -0.186: inside the black band.
	c = p.Shade(uv, pos, 0, pos)
	if c != (mgl64.Vec4{0, 0, 0, 1}) {
		t.Fatalf("Shade under pointer = %v, expected opaque black", c)
	}
}

func TestFaceUV(t *testing.T) {
	if uv := FaceUV(mgl64.Vec2{-1, 1}); uv != (mgl64.Vec2{0, 1}) {
		t.Fatalf("FaceUV(-1,1) = %v", uv)
	}
	if uv := FaceUV(mgl64.Vec2{}); uv != (mgl64.Vec2{0.5, 0.5}) {
		t.Fatalf("FaceUV(0,0) = %v", uv)
	}
}
